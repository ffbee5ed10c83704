package entities

// LogEntry is an append-only record of an event in a session
type LogEntry struct {
	ID            string                 `json:"id"`
	SessionID     string                 `json:"sessionId"`
	ParticipantID string                 `json:"participantId,omitempty"`
	Type          string                 `json:"type"`
	Message       string                 `json:"message"`
	Data          map[string]interface{} `json:"data,omitempty"`
	Timestamp     int64                  `json:"timestamp"`
}
