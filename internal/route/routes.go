package route

import (
	"net/http"

	"edumood/internal/config"
	"edumood/internal/handler"
	"edumood/internal/logger"
	"edumood/internal/middleware"
	"edumood/internal/service"
)

// SetupRoutes registers the reporting API, the viewer websocket, the log
// endpoints and the UDP camera listener, and wraps the mux with the
// authentication middleware.
func SetupRoutes(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Start UDP camera handler in a separate goroutine
	go handler.UDPCameraHandler(manager, logger, cfg)

	// Viewer endpoint
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(manager, logger))

	// Reporting API (pulled by the dashboard)
	mux.HandleFunc("/api/cameras", handler.CamerasHandler(manager, logger))
	mux.HandleFunc("/api/session/table", handler.SessionTableHandler(manager, logger))
	mux.HandleFunc("/api/session/totals", handler.SessionTotalsHandler(manager, logger))
	mux.HandleFunc("/api/session/latency", handler.SessionLatencyHandler(manager, logger))
	mux.HandleFunc("/api/session/end", handler.EndSessionHandler(manager, logger))
	mux.HandleFunc("/api/sessions", handler.ArchivedSessionsHandler(manager, logger))
	mux.HandleFunc("/api/sessions/records", handler.ArchivedRecordsHandler(manager, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handler.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handler.ShowErrorLogsHandler(cfg))

	mux.HandleFunc("/logs/info/clear", handler.ClearInfoLogsHandler(logger))
	mux.HandleFunc("/logs/warning/clear", handler.ClearWarningLogsHandler(logger))
	mux.HandleFunc("/logs/error/clear", handler.ClearErrorLogsHandler(logger))

	// Apply middleware
	return middleware.AuthMiddleware(mux, cfg)
}
