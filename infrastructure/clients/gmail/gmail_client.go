package gmail

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const me = "me"

// Client is a read-only Gmail API client acting as one user.
type Client struct {
	service *gmail.Service
}

func NewGmailClient(ctx context.Context, accessToken string, opts ...option.ClientOption) (repository.IGmail, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	service, err := gmail.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{service: service}, nil
}

// Factory adapts NewGmailClient to repository.GmailFactory.
func Factory(opts ...option.ClientOption) repository.GmailFactory {
	return func(ctx context.Context, accessToken string) (repository.IGmail, error) {
		return NewGmailClient(ctx, accessToken, opts...)
	}
}

func (c *Client) GetProfileEmail(ctx context.Context) (string, error) {
	profile, err := c.service.Users.GetProfile(me).Context(ctx).Do()
	if err != nil {
		return "", providerError("users.getProfile", err)
	}
	return profile.EmailAddress, nil
}

func (c *Client) SearchMessages(ctx context.Context, query string, max int64) ([]dto.MailMessageRef, error) {
	resp, err := c.service.Users.Messages.List(me).Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, providerError("messages.list", err)
	}
	refs := make([]dto.MailMessageRef, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		refs = append(refs, dto.MailMessageRef{ID: m.Id, ThreadID: m.ThreadId})
	}
	return refs, nil
}

func (c *Client) GetMessageMetadata(ctx context.Context, id string) (*dto.MailMessageMeta, error) {
	msg, err := c.service.Users.Messages.Get(me, id).
		Format("metadata").
		MetadataHeaders("Subject", "From").
		Context(ctx).
		Do()
	if err != nil {
		return nil, providerError("messages.get", err)
	}
	return &dto.MailMessageMeta{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  header(msg.Payload, "Subject"),
		From:     header(msg.Payload, "From"),
		Snippet:  msg.Snippet,
	}, nil
}

func (c *Client) GetMessage(ctx context.Context, id string) (*dto.MailMessage, error) {
	msg, err := c.service.Users.Messages.Get(me, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, providerError("messages.get", err)
	}

	out := &dto.MailMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  header(msg.Payload, "Subject"),
		From:     header(msg.Payload, "From"),
		Snippet:  msg.Snippet,
		Body:     ExtractBody(msg.Payload),
	}
	if raw := header(msg.Payload, "Date"); raw != "" {
		if d, err := mail.ParseDate(raw); err == nil {
			out.Date = &d
		}
	}
	if msg.InternalDate > 0 {
		at := time.UnixMilli(msg.InternalDate).UTC()
		out.InternalAt = &at
	}
	return out, nil
}

func header(part *gmail.MessagePart, name string) string {
	if part == nil {
		return ""
	}
	for _, h := range part.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func providerError(op string, err error) error {
	pe := &model.ProviderError{Provider: model.ProviderGmail, Op: op, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		pe.Status = gerr.Code
		pe.Description = gerr.Message
	}
	return pe
}
