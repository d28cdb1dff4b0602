package domain

import "time"

// Link represents a shortened URL and its click analytics
type Link struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	URL           string     `json:"url"`
	ClickCount    int64      `json:"click_count"`
	CreatedAt     time.Time  `json:"created_at"`
	LastClickedAt *time.Time `json:"last_clicked_at"` // null until the first redirect
}
