package chat

// TimestampLayout is the textual timestamp format persisted with every
// turn. Second precision, matching what historical rows already store.
const TimestampLayout = "2006-01-02 15:04:05"

// Turn is one persisted user/bot exchange. Fingerprint is derived from
// (UserMessage, BotResponse, Timestamp) at creation and never changes.
type Turn struct {
	ID          int64  `json:"id"`
	UserMessage string `json:"userMessage"`
	BotResponse string `json:"botResponse"`
	Timestamp   string `json:"timestamp"`
	Fingerprint string `json:"fingerprint"`
}
