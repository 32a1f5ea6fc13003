package http

import (
	"context"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockOAuthUsecase struct{ mock.Mock }

func (m *MockOAuthUsecase) Authorize(ctx context.Context, userID string, provider model.Provider) (*model.Integration, string, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.Integration), args.String(1), args.Error(2)
}

func (m *MockOAuthUsecase) Start(ctx context.Context, userID string, provider model.Provider, returnURL string) (string, error) {
	args := m.Called(ctx, userID, provider, returnURL)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthUsecase) Callback(ctx context.Context, provider model.Provider, code, state, providerError string) *dto.CallbackResult {
	return m.Called(ctx, provider, code, state, providerError).Get(0).(*dto.CallbackResult)
}

func (m *MockOAuthUsecase) EnsureFreshToken(ctx context.Context, integration *model.Integration) (string, error) {
	args := m.Called(ctx, integration)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthUsecase) Status(ctx context.Context, userID string, provider model.Provider) (*dto.IntegrationStatus, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IntegrationStatus), args.Error(1)
}

func (m *MockOAuthUsecase) Disconnect(ctx context.Context, userID string, provider model.Provider, deleteData bool) error {
	return m.Called(ctx, userID, provider, deleteData).Error(0)
}

func (m *MockOAuthUsecase) UpdateFilterKeywords(ctx context.Context, userID string, provider model.Provider, keywords []string) ([]string, error) {
	args := m.Called(ctx, userID, provider, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockYouTubeSync struct{ mock.Mock }

func (m *MockYouTubeSync) Sync(ctx context.Context, userID string) (*dto.YouTubeSyncResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.YouTubeSyncResponse), args.Error(1)
}

type MockGmailSync struct{ mock.Mock }

func (m *MockGmailSync) Sync(ctx context.Context, userID string) (*dto.GmailSyncResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GmailSyncResponse), args.Error(1)
}

type MockAnalysis struct{ mock.Mock }

func (m *MockAnalysis) Analyze(ctx context.Context, userID, videoID string, outputs []string) (*dto.AnalyzeVideoResponse, error) {
	args := m.Called(ctx, userID, videoID, outputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalyzeVideoResponse), args.Error(1)
}

type MockDealUsecase struct{ mock.Mock }

func (m *MockDealUsecase) List(ctx context.Context, userID string) ([]model.Deal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Deal), args.Error(1)
}

func (m *MockDealUsecase) CreateManual(ctx context.Context, userID string, req *dto.CreateDealRequest) (*model.Deal, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Deal), args.Error(1)
}

func (m *MockDealUsecase) UpdateStatus(ctx context.Context, userID, dealID string, status model.DealStatus) error {
	return m.Called(ctx, userID, dealID, status).Error(0)
}

func (m *MockDealUsecase) AddMessage(ctx context.Context, userID, dealID string, req *dto.AddDealMessageRequest) (*model.DealMessage, error) {
	args := m.Called(ctx, userID, dealID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DealMessage), args.Error(1)
}
