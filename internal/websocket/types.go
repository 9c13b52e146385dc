package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/codeveil/codeveil/internal/scoring"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeSanitizeReport is emitted after each rewrite request
	EventTypeSanitizeReport EventType = "sanitize_report"
	// EventTypeSystemStatus carries periodic system status
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection announces client connects and disconnects
	EventTypeConnection EventType = "connection"
)

// Event is one message pushed to connected clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// SanitizeReportEvent summarizes one rewrite. It carries counts and
// scores only; neither the original nor the transformed text is pushed
// over the wire.
type SanitizeReportEvent struct {
	RequestID    string                   `json:"request_id"`
	Profile      string                   `json:"profile"`
	Language     string                   `json:"language,omitempty"`
	InputBytes   int                      `json:"input_bytes"`
	OutputBytes  int                      `json:"output_bytes"`
	RulesMatched int                      `json:"rules_matched"`
	Metrics      *scoring.SecurityMetrics `json:"metrics"`
	ProcessingMS float64                  `json:"processing_ms"`
}

// SystemStatusEvent carries periodic health information
type SystemStatusEvent struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TotalRequests    int64  `json:"total_requests"`
	ActiveRules      int    `json:"active_rules"`
	ConnectedClients int    `json:"connected_clients"`
}

// ConnectionEvent announces a client joining or leaving the hub
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
}

// Client is one connected WebSocket peer
type Client struct {
	ID          string
	Conn        *websocket.Conn
	Send        chan Event
	ConnectedAt time.Time
	IP          string
}
