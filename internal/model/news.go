package model

import "time"

// NewsArticle is a formatted article returned to callers
type NewsArticle struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Related  string `json:"related"`
}

// NewsDigest is the per-user news event published by the digest job
type NewsDigest struct {
	UserID      string        `json:"user_id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Symbols     []string      `json:"symbols"`
	Articles    []NewsArticle `json:"articles"`
	GeneratedAt time.Time     `json:"generated_at"`
}
