package servicebus

import (
	"context"
	"encoding/json"
	"errors"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// Options selects how to reach the namespace. ConnectionString wins over Namespace.
type Options struct {
	Namespace        string
	ConnectionString string
	Queue            string
}

// NewClient builds a Service Bus client from a connection string, or from the
// default Azure credential chain when only a namespace is configured.
func NewClient(opts Options) (*azservicebus.Client, error) {
	if opts.ConnectionString != "" {
		return azservicebus.NewClientFromConnectionString(opts.ConnectionString, nil)
	}
	if opts.Namespace == "" {
		return nil, errors.New("servicebus: namespace or connection string is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(opts.Namespace, cred, nil)
}

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// SyncSender forwards sync events to a Service Bus queue.
type SyncSender struct {
	sender messageSender
}

func NewSyncSender(client *azservicebus.Client, queue string) (*SyncSender, error) {
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return nil, err
	}
	return &SyncSender{sender: sender}, nil
}

var _ repository.ISyncEventPublisher = (*SyncSender)(nil)

func (s *SyncSender) Publish(ctx context.Context, event *model.SyncEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	contentType := "application/json"
	subject := event.Step
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]any{
			"user_id":  event.UserID,
			"provider": string(event.Provider),
		},
	}
	if err := s.sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func (s *SyncSender) Close(ctx context.Context) error {
	return s.sender.Close(ctx)
}
