package usecase

import (
	"context"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/stretchr/testify/mock"
)

type MockCredentials struct{ mock.Mock }

func (m *MockCredentials) Authorize(ctx context.Context, userID string, provider model.Provider) (*model.Integration, string, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.Integration), args.String(1), args.Error(2)
}

type MockIntegration struct{ mock.Mock }

func (m *MockIntegration) Get(ctx context.Context, userID string, provider model.Provider) (*model.Integration, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Integration), args.Error(1)
}

func (m *MockIntegration) Upsert(ctx context.Context, i *model.Integration) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockIntegration) UpdateTokens(ctx context.Context, userID string, provider model.Provider, accessEnc string, refreshEnc *string, keyID string, expiry time.Time) error {
	return m.Called(ctx, userID, provider, accessEnc, refreshEnc, keyID, expiry).Error(0)
}

func (m *MockIntegration) MarkSynced(ctx context.Context, userID string, provider model.Provider, at time.Time) error {
	return m.Called(ctx, userID, provider, at).Error(0)
}

func (m *MockIntegration) UpdateFilterKeywords(ctx context.Context, userID string, provider model.Provider, keywords []string) error {
	return m.Called(ctx, userID, provider, keywords).Error(0)
}

func (m *MockIntegration) Delete(ctx context.Context, userID string, provider model.Provider) error {
	return m.Called(ctx, userID, provider).Error(0)
}

type MockOAuthProvider struct {
	mock.Mock
	name model.Provider
}

func (m *MockOAuthProvider) Name() model.Provider { return m.name }

func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (*repository.OAuthTokens, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OAuthTokens), args.Error(1)
}

func (m *MockOAuthProvider) Refresh(ctx context.Context, refreshToken string) (*repository.OAuthTokens, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OAuthTokens), args.Error(1)
}

func (m *MockOAuthProvider) Identify(ctx context.Context, accessToken string) (*model.AccountIdentity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountIdentity), args.Error(1)
}

type MockYouTube struct{ mock.Mock }

func (m *MockYouTube) GetMyChannel(ctx context.Context) (*model.AccountIdentity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountIdentity), args.Error(1)
}

func (m *MockYouTube) ListChannelVideoIDs(ctx context.Context, channelID, pageToken string, pageSize int64) (*dto.VideoIDPage, error) {
	args := m.Called(ctx, channelID, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoIDPage), args.Error(1)
}

func (m *MockYouTube) GetVideos(ctx context.Context, ids []string) ([]model.RemoteVideo, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RemoteVideo), args.Error(1)
}

func (m *MockYouTube) ListTopLevelComments(ctx context.Context, videoID string, max int64) ([]model.Comment, error) {
	args := m.Called(ctx, videoID, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockYouTube) ListCaptionTracks(ctx context.Context, videoID string) ([]model.CaptionTrack, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CaptionTrack), args.Error(1)
}

func (m *MockYouTube) DownloadCaption(ctx context.Context, trackID, format string) (string, error) {
	args := m.Called(ctx, trackID, format)
	return args.String(0), args.Error(1)
}

type MockVideo struct{ mock.Mock }

func (m *MockVideo) ListStatuses(ctx context.Context, userID string) (map[string]model.VideoStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.VideoStatus), args.Error(1)
}

func (m *MockVideo) MarkRemoved(ctx context.Context, userID, youtubeVideoID string, at time.Time) error {
	return m.Called(ctx, userID, youtubeVideoID, at).Error(0)
}

func (m *MockVideo) Reactivate(ctx context.Context, userID, youtubeVideoID string, at time.Time) error {
	return m.Called(ctx, userID, youtubeVideoID, at).Error(0)
}

func (m *MockVideo) Upsert(ctx context.Context, v *model.RemoteVideo) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}

func (m *MockVideo) GetByID(ctx context.Context, userID, id string) (*model.RemoteVideo, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoteVideo), args.Error(1)
}

func (m *MockVideo) DeleteAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockComment struct{ mock.Mock }

func (m *MockComment) Upsert(ctx context.Context, c *model.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockComment) TopByLikes(ctx context.Context, userID, videoID string, limit int) ([]model.Comment, error) {
	args := m.Called(ctx, userID, videoID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockComment) DeleteAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockTranscript struct{ mock.Mock }

func (m *MockTranscript) Get(ctx context.Context, userID, youtubeVideoID string) (*model.Transcript, error) {
	args := m.Called(ctx, userID, youtubeVideoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transcript), args.Error(1)
}

func (m *MockTranscript) InsertIfAbsent(ctx context.Context, t *model.Transcript) (*model.Transcript, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transcript), args.Error(1)
}

func (m *MockTranscript) DeleteAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockDraft struct{ mock.Mock }

func (m *MockDraft) InsertBatch(ctx context.Context, drafts []model.Draft) (int, error) {
	args := m.Called(ctx, drafts)
	return args.Int(0), args.Error(1)
}

type MockGmail struct{ mock.Mock }

func (m *MockGmail) GetProfileEmail(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGmail) SearchMessages(ctx context.Context, q string, max int64) ([]dto.MailMessageRef, error) {
	args := m.Called(ctx, q, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.MailMessageRef), args.Error(1)
}

func (m *MockGmail) GetMessageMetadata(ctx context.Context, id string) (*dto.MailMessageMeta, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MailMessageMeta), args.Error(1)
}

func (m *MockGmail) GetMessage(ctx context.Context, id string) (*dto.MailMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MailMessage), args.Error(1)
}

type MockDeal struct{ mock.Mock }

func (m *MockDeal) FindByThread(ctx context.Context, userID, threadID string) (*model.Deal, error) {
	args := m.Called(ctx, userID, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Deal), args.Error(1)
}

func (m *MockDeal) InsertIfAbsent(ctx context.Context, d *model.Deal) (string, bool, error) {
	args := m.Called(ctx, d)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockDeal) Create(ctx context.Context, d *model.Deal) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeal) Touch(ctx context.Context, userID, dealID string, at time.Time) error {
	return m.Called(ctx, userID, dealID, at).Error(0)
}

func (m *MockDeal) UpdateStatus(ctx context.Context, userID, dealID string, status model.DealStatus) error {
	return m.Called(ctx, userID, dealID, status).Error(0)
}

func (m *MockDeal) List(ctx context.Context, userID string) ([]model.Deal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Deal), args.Error(1)
}

func (m *MockDeal) Exists(ctx context.Context, userID, dealID string) (bool, error) {
	args := m.Called(ctx, userID, dealID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeal) MessageExists(ctx context.Context, userID, gmailMessageID string) (bool, error) {
	args := m.Called(ctx, userID, gmailMessageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeal) InsertMessage(ctx context.Context, msg *model.DealMessage) (bool, error) {
	args := m.Called(ctx, msg)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeal) DeleteIngested(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockGenerator struct{ mock.Mock }

func (m *MockGenerator) GenerateJSON(ctx context.Context, system, prompt string, temperature float64) (string, error) {
	args := m.Called(ctx, system, prompt, temperature)
	return args.String(0), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, evt *model.SyncEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }
