package chat

// Inbound worker message types.
const (
	EnvelopeInitialize = "initialize"
	EnvelopeGenerate   = "generate"
)

// Outbound worker event types.
const (
	EventStatus   = "status"
	EventProgress = "progress"
	EventReady    = "ready"
	EventResponse = "response"
	EventError    = "error"
)

// Envelope is an inbound message to the generation worker.
type Envelope struct {
	Type        string  `json:"type"`
	Prompt      string  `json:"prompt,omitempty"`
	Query       string  `json:"query,omitempty"` // correlation token, echoed on events
	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Event is an outbound message from the generation worker. Events produced
// for a generate request carry the originating query token.
type Event struct {
	Type         string `json:"type"`
	Message      string `json:"message,omitempty"`
	Progress     int    `json:"progress,omitempty"`
	Query        string `json:"query,omitempty"`
	Response     string `json:"response,omitempty"`
	Error        string `json:"error,omitempty"`
	LoadTimeMS   int64  `json:"load_time_ms,omitempty"`
	ProcessingMS int64  `json:"processing_ms,omitempty"`
}
