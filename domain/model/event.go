package model

import "time"

// SyncEvent reports progress or completion of a sync for one user.
type SyncEvent struct {
	UserID   string         `json:"user_id"`
	Provider Provider       `json:"provider"`
	Step     string         `json:"step"`
	Progress int            `json:"progress"`
	Message  string         `json:"message"`
	Done     bool           `json:"done"`
	Counts   map[string]int `json:"counts,omitempty"`
	At       time.Time      `json:"at"`
}
