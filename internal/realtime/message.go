package realtime

type Event string

const (
	EventImportProgress  Event = "ImportProgress"
	EventImportCompleted Event = "ImportCompleted"
	EventImportFailed    Event = "ImportFailed"
)

// SSEMessage travels from whoever emits progress to every subscribed
// client. Channel is the job event id.
type SSEMessage struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}
