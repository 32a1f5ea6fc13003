package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var gmailNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

const defaultQuery = `(partnership OR collab OR collaboration OR sponsorship OR sponsor OR "brand deal" OR influencer OR campaign OR ambassador) after:2026/07/20`

type gmailFixture struct {
	creds        *MockCredentials
	client       *MockGmail
	integrations *MockIntegration
	deals        *MockDeal
	generator    *MockGenerator
	integration  *model.Integration
	usecase      IGmailSyncUsecase
}

func newGmailFixture() *gmailFixture {
	f := &gmailFixture{
		creds:        new(MockCredentials),
		client:       new(MockGmail),
		integrations: new(MockIntegration),
		deals:        new(MockDeal),
		generator:    new(MockGenerator),
		integration:  &model.Integration{UserID: "u1", Provider: model.ProviderGmail, Connected: true},
	}
	f.creds.On("Authorize", mock.Anything, "u1", model.ProviderGmail).Return(f.integration, "access", nil)
	f.usecase = NewGmailSyncUsecase(GmailSyncDeps{
		Credentials: f.creds,
		Clients: func(context.Context, string) (repository.IGmail, error) {
			return f.client, nil
		},
		Integrations: f.integrations,
		Deals:        f.deals,
		Generator:    f.generator,
		Now:          fixedClock(gmailNow),
	}, GmailSyncConfig{})
	return f
}

func (f *gmailFixture) message(id, thread, from, subject, body string) {
	f.deals.On("MessageExists", mock.Anything, "u1", id).Return(false, nil)
	f.client.On("GetMessage", mock.Anything, id).
		Return(&dto.MailMessage{ID: id, ThreadID: thread, From: from, Subject: subject, Body: body}, nil)
}

func TestGmailSync_FallbackScanCreatesDeals(t *testing.T) {
	f := newGmailFixture()
	f.client.On("SearchMessages", mock.Anything, defaultQuery, int64(20)).Return([]dto.MailMessageRef{}, nil).Once()
	f.client.On("SearchMessages", mock.Anything, fallbackInboxQuery, int64(20)).
		Return([]dto.MailMessageRef{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}}, nil).Once()
	f.client.On("GetMessageMetadata", mock.Anything, "m1").Return(&dto.MailMessageMeta{ID: "m1", ThreadID: "t1", Subject: "Sponsorship opportunity"}, nil)
	f.client.On("GetMessageMetadata", mock.Anything, "m2").Return(&dto.MailMessageMeta{ID: "m2", ThreadID: "t2", Snippet: "Would love to COLLAB"}, nil)
	f.client.On("GetMessageMetadata", mock.Anything, "m3").Return(&dto.MailMessageMeta{ID: "m3", ThreadID: "t3", Subject: "Your invoice"}, nil)

	f.message("m1", "t1", "Jane Doe <jane@acme.io>", "Sponsorship opportunity", "We would like to sponsor your next video.")
	f.message("m2", "t2", "bob@gmail.com", "Hello", "Would love to COLLAB on a campaign.")
	f.deals.On("FindByThread", mock.Anything, "u1", mock.Anything).Return(nil, nil)
	f.generator.On("GenerateJSON", mock.Anything, dealExtractionPrompt, mock.Anything, 0.2).
		Return(`{"summary":"Sponsored video","contact_name":null,"deliverables":["1 video"],"budget":"$2.5k"}`, nil)
	f.deals.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(d *model.Deal) bool {
		return *d.GmailThreadID == "t1" && d.BrandName == "Acme" && *d.ContactName == "Jane Doe" &&
			*d.Summary == "Sponsored video" && *d.ProposedRate == 2500 && d.Status == model.DealNew
	})).Return("d1", true, nil).Once()
	f.deals.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(d *model.Deal) bool {
		return *d.GmailThreadID == "t2" && d.BrandName == "bob" && d.Source == model.DealSourceGmail
	})).Return("d2", true, nil).Once()
	f.deals.On("InsertMessage", mock.Anything, mock.MatchedBy(func(m *model.DealMessage) bool {
		return (m.DealID == "d1" && *m.GmailMessageID == "m1") || (m.DealID == "d2" && *m.GmailMessageID == "m2")
	})).Return(true, nil).Twice()
	f.integrations.On("MarkSynced", mock.Anything, "u1", model.ProviderGmail, gmailNow).Return(nil).Once()

	res, err := f.usecase.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.DealsCreated)
	assert.Equal(t, 2, res.MessagesAdded)
	assert.Equal(t, "Synced 2 new deals and 2 messages", res.Message)
	f.client.AssertNotCalled(t, "GetMessage", mock.Anything, "m3")
	f.deals.AssertExpectations(t)
	f.integrations.AssertExpectations(t)
}

func TestGmailSync_NoMatchesLeavesWatermark(t *testing.T) {
	f := newGmailFixture()
	f.client.On("SearchMessages", mock.Anything, defaultQuery, int64(20)).Return([]dto.MailMessageRef{}, nil)
	f.client.On("SearchMessages", mock.Anything, fallbackInboxQuery, int64(20)).Return([]dto.MailMessageRef{{ID: "m3"}}, nil)
	f.client.On("GetMessageMetadata", mock.Anything, "m3").Return(&dto.MailMessageMeta{ID: "m3", Subject: "Your invoice"}, nil)

	res, err := f.usecase.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "No new matching emails found", res.Message)
	assert.Zero(t, res.DealsCreated)
	f.integrations.AssertNotCalled(t, "MarkSynced", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGmailSync_KeywordHitsSkipFallback(t *testing.T) {
	f := newGmailFixture()
	last := time.Date(2026, 10, 1, 23, 30, 0, 0, time.UTC)
	f.integration.LastSyncAt = &last
	f.integration.FilterKeywords = []string{"paid promo", `"quoted"`}

	f.client.On("SearchMessages", mock.Anything, `("paid promo" OR quoted) after:2026/10/01`, int64(20)).
		Return([]dto.MailMessageRef{{ID: "m1", ThreadID: "t1"}}, nil).Once()
	f.deals.On("MessageExists", mock.Anything, "u1", "m1").Return(true, nil)
	f.integrations.On("MarkSynced", mock.Anything, "u1", model.ProviderGmail, gmailNow).Return(nil).Once()

	res, err := f.usecase.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Synced 0 new deals and 0 messages", res.Message)
	f.client.AssertNumberOfCalls(t, "SearchMessages", 1)
	f.client.AssertNotCalled(t, "GetMessage", mock.Anything, mock.Anything)
	f.integrations.AssertExpectations(t)
}

func TestGmailSync_ExistingThreadIsTouched(t *testing.T) {
	f := newGmailFixture()
	f.client.On("SearchMessages", mock.Anything, defaultQuery, int64(20)).Return([]dto.MailMessageRef{{ID: "m9", ThreadID: "t1"}}, nil)
	f.message("m9", "t1", "jane@acme.io", "Re: Sponsorship", "Following up")
	f.deals.On("FindByThread", mock.Anything, "u1", "t1").Return(&model.Deal{ID: "d1"}, nil)
	f.deals.On("Touch", mock.Anything, "u1", "d1", gmailNow).Return(nil).Once()
	f.deals.On("InsertMessage", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.integrations.On("MarkSynced", mock.Anything, "u1", model.ProviderGmail, gmailNow).Return(nil)

	res, err := f.usecase.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.DealsCreated)
	assert.Equal(t, 1, res.MessagesAdded)
	f.deals.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
	f.generator.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.deals.AssertExpectations(t)
}

func TestGmailSync_ConcurrentCreatorWinsThread(t *testing.T) {
	f := newGmailFixture()
	f.client.On("SearchMessages", mock.Anything, defaultQuery, int64(20)).Return([]dto.MailMessageRef{{ID: "m1", ThreadID: "t1"}}, nil)
	f.message("m1", "t1", "jane@acme.io", "Sponsorship", "Offer")
	f.deals.On("FindByThread", mock.Anything, "u1", "t1").Return(nil, nil)
	f.generator.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, 0.2).Return(`{"summary":"Offer"}`, nil)
	f.deals.On("InsertIfAbsent", mock.Anything, mock.Anything).Return("d-other", false, nil)
	f.deals.On("Touch", mock.Anything, "u1", "d-other", gmailNow).Return(nil).Once()
	f.deals.On("InsertMessage", mock.Anything, mock.MatchedBy(func(m *model.DealMessage) bool {
		return m.DealID == "d-other"
	})).Return(true, nil)
	f.integrations.On("MarkSynced", mock.Anything, "u1", model.ProviderGmail, gmailNow).Return(nil)

	res, err := f.usecase.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.DealsCreated)
	assert.Equal(t, 1, res.MessagesAdded)
	f.deals.AssertExpectations(t)
}

func TestGmailSync_ExtractionFailureKeepsTruncatedBody(t *testing.T) {
	f := newGmailFixture()
	body := strings.Repeat("é", 700)
	f.client.On("SearchMessages", mock.Anything, defaultQuery, int64(20)).Return([]dto.MailMessageRef{{ID: "m1"}}, nil)
	f.message("m1", "", "Jane <jane@gmail.com>", "", body)
	f.deals.On("FindByThread", mock.Anything, "u1", "m1").Return(nil, nil)
	f.generator.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, 0.2).Return("not json", nil)
	f.deals.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(d *model.Deal) bool {
		return *d.Summary == strings.Repeat("é", 500) && d.ExtractedData == nil &&
			d.BrandName == "Jane" && *d.Subject == "(No Subject)" && *d.GmailThreadID == "m1"
	})).Return("d1", true, nil).Once()
	f.deals.On("InsertMessage", mock.Anything, mock.Anything).Return(true, nil)
	f.integrations.On("MarkSynced", mock.Anything, "u1", model.ProviderGmail, gmailNow).Return(nil)

	res, err := f.usecase.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.DealsCreated)
	f.deals.AssertExpectations(t)
}

func TestGmailSync_MessageFailuresAreIsolated(t *testing.T) {
	f := newGmailFixture()
	f.client.On("SearchMessages", mock.Anything, defaultQuery, int64(20)).
		Return([]dto.MailMessageRef{{ID: "bad", ThreadID: "t0"}, {ID: "m1", ThreadID: "t1"}}, nil)
	f.deals.On("MessageExists", mock.Anything, "u1", "bad").Return(false, nil)
	f.client.On("GetMessage", mock.Anything, "bad").Return(nil, errors.New("gmail 500"))
	f.message("m1", "t1", "jane@acme.io", "Sponsorship", "Offer")
	f.deals.On("FindByThread", mock.Anything, "u1", "t1").Return(nil, nil)
	f.generator.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, 0.2).Return("", &model.GenerationError{Kind: model.GenerationTransport, Err: errors.New("timeout")})
	f.deals.On("InsertIfAbsent", mock.Anything, mock.Anything).Return("d1", true, nil)
	f.deals.On("InsertMessage", mock.Anything, mock.Anything).Return(true, nil)
	f.integrations.On("MarkSynced", mock.Anything, "u1", model.ProviderGmail, gmailNow).Return(nil)

	res, err := f.usecase.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.DealsCreated)
	assert.Equal(t, 1, res.MessagesAdded)
}

func TestGmailSync_SearchFailureIsFatal(t *testing.T) {
	f := newGmailFixture()
	f.client.On("SearchMessages", mock.Anything, defaultQuery, int64(20)).Return(nil, errors.New("quota exceeded"))

	_, err := f.usecase.Sync(context.Background(), "u1")
	assert.EqualError(t, err, "quota exceeded")
	f.integrations.AssertNotCalled(t, "MarkSynced", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
