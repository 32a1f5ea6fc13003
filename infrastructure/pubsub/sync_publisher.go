package pubsub

import (
	"context"
	"encoding/json"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// SyncPublisher forwards sync events to a Pub/Sub topic.
type SyncPublisher struct {
	topic *pubsub.Topic
}

func NewSyncPublisher(client *pubsub.Client, topicName string) repository.ISyncEventPublisher {
	return &SyncPublisher{topic: client.Topic(topicName)}
}

// EnsureTopic creates the topic when it does not exist yet.
func EnsureTopic(ctx context.Context, client *pubsub.Client, topicName string) error {
	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		if _, err := client.CreateTopic(ctx, topicName); err != nil {
			return err
		}
	}
	return nil
}

func (p *SyncPublisher) Publish(ctx context.Context, event *model.SyncEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"user_id":  event.UserID,
			"provider": string(event.Provider),
			"step":     event.Step,
		},
	}
	serverID, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server ID", serverID).Debug("Sync event published")
	return nil
}

// Stop flushes pending messages.
func (p *SyncPublisher) Stop() {
	p.topic.Stop()
}
