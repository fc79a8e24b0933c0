package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/pfe-hub/capstone-backend/models"
)

// setupRoutes wires every endpoint. All routes run behind the identity
// middleware; student mutations additionally pass the window gates.
func setupRoutes(r chi.Router, handlers *routeHandlers, identity identityMiddleware, gate windowGate, responder Responder) {
	r.Group(func(r chi.Router) {
		r.Use(identity.resolve)

		// Registries
		r.Get("/skills", handlers.registryHandler.getAllSkills())
		r.Get("/specialities", handlers.registryHandler.getAllSpecialities())
		r.Get("/assignment-types", handlers.registryHandler.getAllAssignmentTypes())
		r.Post("/me/skills", handlers.registryHandler.addMySkills())

		// Team offers and applications
		r.Get("/team-offers", handlers.teamOfferHandler.getOpenOffers())
		r.Get("/team-offer/{offerID}", handlers.teamOfferHandler.getOffer())
		r.Get("/my/team-offer", handlers.teamOfferHandler.getMyOffer())
		r.Get("/my/team-offer/applications", handlers.teamApplicationHandler.getForMyOffer())
		r.Get("/my/team-applications", handlers.teamApplicationHandler.getMine())

		r.Group(func(r chi.Router) {
			r.Use(gate.teamComposition)

			r.Post("/team-offer", handlers.teamOfferHandler.createOffer())
			r.Delete("/team-offer/{offerID}", handlers.teamOfferHandler.deleteOffer())
			r.Delete("/team-offer/{offerID}/member/{studentID}", handlers.teamOfferHandler.removeMember())
			r.Post("/team-application", handlers.teamApplicationHandler.apply())
			r.Patch("/team-application/{applicationID}", handlers.teamApplicationHandler.updateStatus())
		})

		// Project offers and applications
		r.Get("/project-offers", handlers.projectOfferHandler.getOffers())
		r.Get("/project-offers/history", handlers.projectOfferHandler.getHistory())
		r.Get("/my/project-offers", handlers.projectOfferHandler.getMyOffers())
		r.Get("/project-offer/{offerID}", handlers.projectOfferHandler.getOffer())
		r.Post("/project-offer", handlers.projectOfferHandler.createOffer())
		r.Delete("/project-offer/{offerID}", handlers.projectOfferHandler.deleteOffer())

		r.Get("/project-offer/{offerID}/applications", handlers.projectApplicationHandler.getForOffer())
		r.Get("/my/project-applications", handlers.projectApplicationHandler.getMine())
		r.Get("/my/project", handlers.projectApplicationHandler.getAssignedProject())
		r.Post("/project-application/{applicationID}/accept", handlers.projectApplicationHandler.accept())
		r.Post("/project-application/{applicationID}/reject", handlers.projectApplicationHandler.reject())

		r.Group(func(r chi.Router) {
			r.Use(gate.projectSelection)

			r.Post("/project-offer/{offerID}/apply", handlers.projectApplicationHandler.apply())
			r.Post("/project-application/{applicationID}/cancel", handlers.projectApplicationHandler.cancel())
		})

		// Windows
		r.Get("/windows/composition", handlers.windowHandler.getCompositionWindows())
		r.Get("/windows/selection", handlers.windowHandler.getSelectionWindows())

		// Sprint tracking
		r.Get("/team/{teamID}/sprints", handlers.sprintHandler.getSprints())
		r.Post("/team/{teamID}/sprints", handlers.sprintHandler.createSprint())
		r.Get("/sprint/{sprintID}", handlers.sprintHandler.getSprint())
		r.Patch("/sprint/{sprintID}", handlers.sprintHandler.updateSprint())
		r.Delete("/sprint/{sprintID}", handlers.sprintHandler.deleteSprint())
		r.Get("/sprint/{sprintID}/deliverables", handlers.sprintHandler.getDeliverables())
		r.Post("/sprint/{sprintID}/deliverables", handlers.sprintHandler.createDeliverable())
		r.Delete("/deliverable/{deliverableID}", handlers.sprintHandler.deleteDeliverable())
		r.Get("/sprint/{sprintID}/notes", handlers.sprintHandler.getNotes())
		r.Post("/sprint/{sprintID}/notes", handlers.sprintHandler.createNote())
		r.Delete("/note/{noteID}", handlers.sprintHandler.deleteNote())

		// Uploads
		r.Post("/upload", handlers.uploadHandler.upload())

		// Administration
		r.Group(func(r chi.Router) {
			r.Use(requireRole(responder, models.RoleAdmin))

			r.Post("/skill", handlers.registryHandler.createSkill())
			r.Put("/skill/{skillID}", handlers.registryHandler.updateSkill())
			r.Delete("/skill/{skillID}", handlers.registryHandler.deleteSkill())

			r.Post("/speciality", handlers.registryHandler.createSpeciality())
			r.Put("/speciality/{specialityID}", handlers.registryHandler.updateSpeciality())
			r.Delete("/speciality/{specialityID}", handlers.registryHandler.deleteSpeciality())

			r.Put("/assignment-type", handlers.registryHandler.setAssignmentType())

			r.Post("/windows/composition", handlers.windowHandler.createCompositionWindow())
			r.Put("/windows/composition/{windowID}", handlers.windowHandler.updateCompositionWindow())
			r.Delete("/windows/composition/{windowID}", handlers.windowHandler.deleteCompositionWindow())
			r.Post("/windows/selection", handlers.windowHandler.createSelectionWindow())
			r.Put("/windows/selection/{windowID}", handlers.windowHandler.updateSelectionWindow())
			r.Delete("/windows/selection/{windowID}", handlers.windowHandler.deleteSelectionWindow())
		})
	})
}
