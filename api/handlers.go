package api

import (
	"github.com/pfe-hub/capstone-backend/database"
	"github.com/pfe-hub/capstone-backend/engine"
	"github.com/pfe-hub/capstone-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, notifier engine.Notifier, storage services.Storage) *routeHandlers {
	store := db.Store()
	teams := engine.NewTeamEngine(store, notifier)
	projects := engine.NewProjectEngine(store, notifier)
	registry := engine.NewRegistryEngine(store)

	return &routeHandlers{
		registryHandler:           newRegistryHandler(registry, db),
		teamOfferHandler:          newTeamOfferHandler(teams, db),
		teamApplicationHandler:    newTeamApplicationHandler(teams, db),
		projectOfferHandler:       newProjectOfferHandler(projects, db, storage),
		projectApplicationHandler: newProjectApplicationHandler(projects, db),
		windowHandler:             newWindowHandler(db),
		sprintHandler:             newSprintHandler(db, storage),
		uploadHandler:             newUploadHandler(storage),
	}
}
