package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler   healthHandler
	authHandler     authHandler
	projectHandler  projectHandler
	adminHandler    adminProjectHandler
	commentHandler  commentHandler
	categoryHandler categoryHandler
	profileHandler  profileHandler
	settingsHandler settingsHandler
	uploadHandler   uploadHandler
	contactHandler  contactHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error             string   `json:"error" example:"Invalid email or password. Please try again."`
	Status            string   `json:"status" example:"error"`
	Field             string   `json:"field,omitempty" example:"title"`
	Details           string   `json:"details,omitempty" example:"Additional error details"`
	Errors            []string `json:"errors,omitempty"`
	RetryAfterSeconds int      `json:"retry_after_seconds,omitempty"`
}

// StatusResponse acknowledges a mutation that has nothing else to return.
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty"`
}
