package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/logger"

	"github.com/sirupsen/logrus"
)

var errNoGenerator = errors.New("no text generator configured")

const (
	extractionBodyLimit = 3000
	fallbackSummaryLen  = 500
	firstSyncLookback   = 90 * 24 * time.Hour
)

const dealExtractionPrompt = `You read inbound brand partnership emails for a content creator.
Return one JSON object with these keys:
- summary: two or three sentences describing the offer
- contact_name: the person who wrote the email
- deliverables: array of requested deliverables, e.g. ["1 YouTube video", "2 Instagram posts"]
- timeline: deadlines or dates mentioned
- budget: compensation mentioned, verbatim
- links: array of URLs in the email
- next_steps: the action the sender asks for
Use null for anything the email does not mention.`

// IGmailSyncUsecase turns matching mailbox messages into deals.
type IGmailSyncUsecase interface {
	Sync(ctx context.Context, userID string) (*dto.GmailSyncResponse, error)
}

type GmailSyncConfig struct {
	MaxMessages int64
}

type GmailSyncDeps struct {
	Credentials  ICredentials
	Clients      repository.GmailFactory
	Integrations repository.IIntegration
	Deals        repository.IDeal
	Generator    repository.ITextGenerator
	Events       repository.ISyncEventPublisher
	Now          func() time.Time
}

type gmailSyncUsecase struct {
	GmailSyncDeps
	cfg GmailSyncConfig
}

func NewGmailSyncUsecase(deps GmailSyncDeps, cfg GmailSyncConfig) IGmailSyncUsecase {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 20
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &gmailSyncUsecase{GmailSyncDeps: deps, cfg: cfg}
}

func (u *gmailSyncUsecase) Sync(ctx context.Context, userID string) (*dto.GmailSyncResponse, error) {
	startedAt := u.Now().UTC()
	integration, token, err := u.Credentials.Authorize(ctx, userID, model.ProviderGmail)
	if err != nil {
		return nil, err
	}
	client, err := u.Clients(ctx, token)
	if err != nil {
		return nil, err
	}
	progress := progressReporter{publisher: u.Events, userID: userID, provider: model.ProviderGmail, now: u.Now}
	log := logger.GetLogger().WithFields(logrus.Fields{"user_id": userID, "provider": model.ProviderGmail})

	keywords := integration.FilterKeywords
	if len(keywords) == 0 {
		keywords = defaultDealKeywords
	}
	since := startedAt.Add(-firstSyncLookback)
	if integration.LastSyncAt != nil {
		since = *integration.LastSyncAt
	}

	progress.step(ctx, "searching", 10, "Searching mailbox")
	refs, err := client.SearchMessages(ctx, buildSearchQuery(keywords, since), u.cfg.MaxMessages)
	if err != nil {
		return nil, err
	}
	// The broad scan runs only when the keyword query returns nothing at all.
	if len(refs) == 0 {
		refs = u.fallbackScan(ctx, client, keywords, log)
	}
	if len(refs) == 0 {
		res := &dto.GmailSyncResponse{Message: "No new matching emails found"}
		progress.done(ctx, res.Message, map[string]int{"deals": 0, "messages": 0})
		return res, nil
	}
	if int64(len(refs)) > u.cfg.MaxMessages {
		refs = refs[:u.cfg.MaxMessages]
	}

	res := &dto.GmailSyncResponse{}
	for i, ref := range refs {
		progress.step(ctx, "ingesting", 20+70*i/len(refs), fmt.Sprintf("Processing message %d of %d", i+1, len(refs)))
		created, added, err := u.ingest(ctx, client, userID, ref)
		if err != nil {
			log.WithField("gmail_message_id", ref.ID).WithField("error", err).Warn("Error while processing message")
			continue
		}
		if created {
			res.DealsCreated++
		}
		if added {
			res.MessagesAdded++
		}
	}

	if err := u.Integrations.MarkSynced(ctx, userID, model.ProviderGmail, startedAt); err != nil {
		return nil, err
	}
	res.Message = fmt.Sprintf("Synced %d new deals and %d messages", res.DealsCreated, res.MessagesAdded)
	log.WithField("deals", res.DealsCreated).WithField("messages", res.MessagesAdded).Info("Gmail sync completed")
	progress.done(ctx, res.Message, map[string]int{"deals": res.DealsCreated, "messages": res.MessagesAdded})
	return res, nil
}

func (u *gmailSyncUsecase) fallbackScan(ctx context.Context, client repository.IGmail, keywords []string, log *logrus.Entry) []dto.MailMessageRef {
	candidates, err := client.SearchMessages(ctx, fallbackInboxQuery, u.cfg.MaxMessages)
	if err != nil {
		log.WithField("error", err).Warn("Fallback inbox scan failed")
		return nil
	}
	var matched []dto.MailMessageRef
	for _, c := range candidates {
		meta, err := client.GetMessageMetadata(ctx, c.ID)
		if err != nil {
			log.WithField("gmail_message_id", c.ID).WithField("error", err).Debug("Skipping fallback candidate")
			continue
		}
		if !matchesKeywords(meta.Subject, meta.Snippet, keywords) {
			continue
		}
		ref := dto.MailMessageRef{ID: c.ID, ThreadID: meta.ThreadID}
		if ref.ThreadID == "" {
			ref.ThreadID = c.ThreadID
		}
		matched = append(matched, ref)
	}
	if len(matched) > 0 {
		log.WithField("matched", len(matched)).Info("Fallback scan found matching emails")
	}
	return matched
}

// ingest stores one message, creating its deal when the thread is new.
// It reports whether a deal was created and whether a message row was added.
func (u *gmailSyncUsecase) ingest(ctx context.Context, client repository.IGmail, userID string, ref dto.MailMessageRef) (bool, bool, error) {
	seen, err := u.Deals.MessageExists(ctx, userID, ref.ID)
	if err != nil {
		return false, false, err
	}
	if seen {
		return false, false, nil
	}

	msg, err := client.GetMessage(ctx, ref.ID)
	if err != nil {
		return false, false, err
	}
	from := parseSender(msg.From)
	subject := msg.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	body := msg.Body
	if body == "" {
		body = "(No body)"
	}
	sentAt := u.Now().UTC()
	switch {
	case msg.Date != nil:
		sentAt = msg.Date.UTC()
	case msg.InternalAt != nil:
		sentAt = msg.InternalAt.UTC()
	}
	threadID := msg.ThreadID
	if threadID == "" {
		threadID = ref.ThreadID
	}
	if threadID == "" {
		threadID = msg.ID
	}

	dealID, created, err := u.resolveDeal(ctx, userID, threadID, from, subject, body)
	if err != nil {
		return false, false, err
	}

	messageID := ref.ID
	added, err := u.Deals.InsertMessage(ctx, &model.DealMessage{
		DealID:         dealID,
		Content:        body,
		Sender:         from.Email,
		Subject:        &subject,
		GmailMessageID: &messageID,
		GmailThreadID:  &threadID,
		Timestamp:      sentAt,
	})
	if err != nil {
		return created, false, err
	}
	return created, added, nil
}

func (u *gmailSyncUsecase) resolveDeal(ctx context.Context, userID, threadID string, from sender, subject, body string) (string, bool, error) {
	existing, err := u.Deals.FindByThread(ctx, userID, threadID)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, u.Deals.Touch(ctx, userID, existing.ID, u.Now())
	}

	deal := &model.Deal{
		UserID:        userID,
		BrandName:     brandName(from),
		BrandEmail:    optional(from.Email),
		ContactName:   optional(from.Name),
		ContactEmail:  optional(from.Email),
		Subject:       &subject,
		Status:        model.DealNew,
		GmailThreadID: &threadID,
		Source:        model.DealSourceGmail,
	}
	extraction, raw, err := u.extract(ctx, from, subject, body)
	if err != nil {
		logger.GetLogger().WithField("user_id", userID).WithField("error", err).Warn("Deal extraction failed, keeping raw summary")
		summary := truncateRunes(body, fallbackSummaryLen)
		deal.Summary = &summary
	} else {
		deal.Summary = optional(extraction.Summary)
		deal.ExtractedData = raw
		if extraction.ContactName != "" {
			deal.ContactName = &extraction.ContactName
		}
		deal.Deliverables = extraction.Deliverables
		deal.ProposedRate = parseBudget(extraction.Budget)
	}

	id, created, err := u.Deals.InsertIfAbsent(ctx, deal)
	if err != nil {
		return "", false, err
	}
	if !created {
		if err := u.Deals.Touch(ctx, userID, id, u.Now()); err != nil {
			return "", false, err
		}
	}
	return id, created, nil
}

func (u *gmailSyncUsecase) extract(ctx context.Context, from sender, subject, body string) (*model.DealExtraction, []byte, error) {
	if u.Generator == nil {
		return nil, nil, errNoGenerator
	}
	prompt := fmt.Sprintf("Email from: %s <%s>\nSubject: %s\n\n%s", from.Name, from.Email, subject, truncateRunes(body, extractionBodyLimit))
	out, err := u.Generator.GenerateJSON(ctx, dealExtractionPrompt, prompt, 0.2)
	if err != nil {
		return nil, nil, err
	}
	return parseDealExtraction(out)
}
