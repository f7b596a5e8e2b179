package api

import (
	"sync"

	"pastelsoft.com/medimap/internal/gesture"
	"pastelsoft.com/medimap/internal/importer"
	"pastelsoft.com/medimap/internal/monitoring"
	"pastelsoft.com/medimap/internal/roster"
)

// Server holds the handler dependencies: the authoritative store, the
// gesture state machine over it, the import parser, and the monitoring
// setters.
type Server struct {
	store      *roster.Store
	parser     importer.Parser
	monitoring *monitoring.Service

	// Gestures are single-pointer by model; one API move drives a full
	// start/end pair under this lock.
	gestureMu sync.Mutex
	gestures  *gesture.Handler
}

// NewServer wires the handler dependencies together.
func NewServer(store *roster.Store, parser importer.Parser) *Server {
	return &Server{
		store:      store,
		parser:     parser,
		monitoring: monitoring.NewService(store),
		gestures:   gesture.NewHandler(store),
	}
}
