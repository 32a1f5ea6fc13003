package usecase

import (
	"context"
	"time"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"
)

type progressReporter struct {
	publisher repository.ISyncEventPublisher
	userID    string
	provider  model.Provider
	now       func() time.Time
}

func (p progressReporter) step(ctx context.Context, step string, progress int, message string) {
	p.publish(ctx, &model.SyncEvent{Step: step, Progress: progress, Message: message})
}

func (p progressReporter) done(ctx context.Context, message string, counts map[string]int) {
	p.publish(ctx, &model.SyncEvent{Step: "complete", Progress: 100, Message: message, Done: true, Counts: counts})
}

func (p progressReporter) publish(ctx context.Context, evt *model.SyncEvent) {
	if p.publisher == nil {
		return
	}
	evt.UserID = p.userID
	evt.Provider = p.provider
	evt.At = p.now().UTC()
	_ = p.publisher.Publish(ctx, evt)
}
