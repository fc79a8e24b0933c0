package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	registryHandler           registryHandler
	teamOfferHandler          teamOfferHandler
	teamApplicationHandler    teamApplicationHandler
	projectOfferHandler       projectOfferHandler
	projectApplicationHandler projectApplicationHandler
	windowHandler             windowHandler
	sprintHandler             sprintHandler
	uploadHandler             uploadHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}
