package model

import "time"

const DraftStatusDraft = "Draft"

// Draft is a generated or hand-written content unit.
type Draft struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Platform       string    `json:"platform"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	RelatedVideoID *string   `json:"related_video_id,omitempty"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
}

// ShortsContent is the title/description pair generated for a short.
type ShortsContent struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// Clip is a suggested highlight segment.
type Clip struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
	Hook  string `json:"hook"`
}

// GeneratedContent is the validated output of one analysis call.
type GeneratedContent struct {
	Thread    *string        `json:"thread,omitempty"`
	LinkedIn  *string        `json:"linkedin,omitempty"`
	Instagram *string        `json:"instagram,omitempty"`
	Shorts    *ShortsContent `json:"shorts,omitempty"`
	Clips     []Clip         `json:"clips" validate:"dive"`
}
