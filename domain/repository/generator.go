package repository

import (
	"context"

	"creator-ops/domain/model"
)

// ITextGenerator returns a JSON object produced from a system instruction and a prompt.
type ITextGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, temperature float64) (string, error)
}

// ISyncEventPublisher fans sync events out to other services.
type ISyncEventPublisher interface {
	Publish(ctx context.Context, event *model.SyncEvent) error
}
