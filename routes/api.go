package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/okanbasoglu/outreach-dispatch-service/environments"
	"github.com/okanbasoglu/outreach-dispatch-service/handlers"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	dispatchHandler *handlers.DispatchHandler,
	attemptHandler *handlers.AttemptHandler,
	contactHandler *handlers.ContactHandler,
	recordingHandler *handlers.RecordingHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 base group. Bearer identity is optional everywhere: anonymous
	// callers get local-only behavior.
	v1 := e.Group("/api/v1", middlewares.OptionalIdentity(cfg.Auth.JWTSecret))

	// Dispatch routes with their own API key
	dispatch := v1.Group("/dispatch", middlewares.APIKeyAuth(cfg.Auth.DispatchAPIKey))

	dispatch.POST("/start", dispatchHandler.StartDispatch)
	dispatch.POST("/advance", dispatchHandler.AdvanceDispatch)
	dispatch.POST("/abort", dispatchHandler.AbortDispatch)
	dispatch.GET("/status", dispatchHandler.GetDispatchStatus)

	// Contact batch routes share the dispatch key
	contacts := v1.Group("/contacts", middlewares.APIKeyAuth(cfg.Auth.DispatchAPIKey))

	contacts.POST("/upload", contactHandler.UploadContacts)
	contacts.GET("", contactHandler.GetContacts)

	// Recording routes share the dispatch key
	recordings := v1.Group("/recordings", middlewares.APIKeyAuth(cfg.Auth.DispatchAPIKey))

	recordings.POST("/start", recordingHandler.StartCapture)
	recordings.POST("/stop", recordingHandler.StopCapture)
	recordings.GET("/active", recordingHandler.GetActiveCapture)
	recordings.GET("", recordingHandler.ListRecordings)

	// Attempt history routes with their own API key
	attempts := v1.Group("/attempts", middlewares.APIKeyAuth(cfg.Auth.AttemptsAPIKey))

	attempts.GET("", attemptHandler.GetAttempts)
	attempts.GET("/stats", attemptHandler.GetStats)
	attempts.GET("/export", attemptHandler.ExportAttempts)
	attempts.GET("/sessions/:id", attemptHandler.GetSessionAttempts)
	attempts.DELETE("", attemptHandler.ClearAttempts)
}
