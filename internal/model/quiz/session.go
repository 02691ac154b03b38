package quiz

import "time"

// Session is the client-facing view of one funnel session.
type Session struct {
	ID        string            `json:"id"`
	Step      string            `json:"step"`
	Progress  int               `json:"progress"`
	Answers   Answers           `json:"answers"`
	Tracking  map[string]string `json:"tracking,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
