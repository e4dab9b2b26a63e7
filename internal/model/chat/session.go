package chat

import "time"

// Session captures a transient anonymous conversation. Sessions live in
// memory only; persisted turns carry no session reference.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
