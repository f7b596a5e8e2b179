package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pastelsoft.com/medimap/internal/metrics"
)

// SetupRoutes configures and returns the HTTP router
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Add middleware to all routes
	r.Use(metrics.Middleware)

	// Roster surface
	r.HandleFunc("/patients", s.ListPatientsHandler).Methods("GET")
	r.HandleFunc("/patients/import", s.ImportHandler).Methods("POST")
	r.HandleFunc("/patients/{id}", s.UpdatePatientHandler).Methods("PATCH")
	r.HandleFunc("/patients/{id}", s.DeletePatientHandler).Methods("DELETE")
	r.HandleFunc("/patients/{id}/move", s.MovePatientHandler).Methods("POST")

	// Discharge surface
	r.HandleFunc("/patients/{id}/discharge/defaults", s.DischargeDefaultsHandler).Methods("GET")
	r.HandleFunc("/patients/{id}/discharge", s.SaveDischargeHandler).Methods("POST")
	r.HandleFunc("/discharge/export", s.ExportHandler).Methods("GET")

	// Monitoring surface
	r.HandleFunc("/patients/{id}/monitoring", s.MonitoringHandler).Methods("POST")
	r.HandleFunc("/monitoring/sheet", s.SheetHandler).Methods("GET")

	// Static catalogue
	r.HandleFunc("/rooms", RoomsHandler).Methods("GET")

	// Liveness
	r.HandleFunc("/health", HealthHandler).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
