package dto

import "creator-ops/domain/model"

// VideoIDPage is one page of a channel's video listing.
type VideoIDPage struct {
	IDs           []string
	NextPageToken string
}

// YouTubeSyncResponse summarises one reconcile + comment ingestion run.
type YouTubeSyncResponse struct {
	Message          string `json:"message"`
	VideosCount      int    `json:"videosCount"`
	CommentsCount    int    `json:"commentsCount"`
	RemovedCount     int    `json:"removedCount"`
	ReactivatedCount int    `json:"reactivatedCount"`
}

// AnalyzeVideoRequest asks for generated content for one mirrored video.
type AnalyzeVideoRequest struct {
	Outputs []string `json:"outputs"`
}

// AnalyzeVideoResponse is returned by the analyzer.
type AnalyzeVideoResponse struct {
	Success          bool                    `json:"success"`
	TranscriptSource model.TranscriptSource  `json:"transcriptSource"`
	GeneratedContent *model.GeneratedContent `json:"generatedContent"`
	DraftsCreated    int                     `json:"draftsCreated"`
	Clips            []model.Clip            `json:"clips"`
}
