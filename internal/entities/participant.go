package entities

// Participant is a player's membership record within a session
type Participant struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	SessionID string `json:"sessionId,omitempty"`
	IsHost    bool   `json:"isHost"`
	IsReady   bool   `json:"isReady"`
	IsOnline  bool   `json:"isOnline"`
	LastSeen  int64  `json:"lastSeen"`
}
