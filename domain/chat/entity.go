package chat

// Participant represents one joined connection.
type Participant struct {
	ConnectionID string `json:"connection_id"`
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
	Room         string `json:"room"`
}

// Message is one unit of conversation history. The JSON tags match the wire
// payload delivered as receive_message and returned by the history endpoint.
type Message struct {
	Username string `json:"username"`
	Content  string `json:"message"`
	Type     string `json:"type"` // "text" or "image"
	Time     string `json:"time"` // HH:MM:SS
	UserID   string `json:"user_id"`
}
