package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
)

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) FindByUID(ctx context.Context, uid string) (*entities.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *mockProfileStore) Save(ctx context.Context, profile *entities.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockAgentQuerier struct {
	mock.Mock
}

func (m *mockAgentQuerier) QueryAgent(ctx context.Context, uid string) (*entities.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *mockAgentQuerier) CreateAgent(ctx context.Context, profile *entities.UserProfile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

type mockNotesClient struct {
	mock.Mock
}

func (m *mockNotesClient) FetchAll(ctx context.Context, scope api.Scope) ([]entities.Note, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Note), args.Error(1)
}

func (m *mockNotesClient) Search(ctx context.Context, keyword string) ([]entities.Note, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Note), args.Error(1)
}

func (m *mockNotesClient) Create(ctx context.Context, note *entities.Note) (string, error) {
	args := m.Called(ctx, note)
	return args.String(0), args.Error(1)
}

func (m *mockNotesClient) Overwrite(ctx context.Context, note *entities.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNotesClient) Delete(ctx context.Context, id, creator string) error {
	args := m.Called(ctx, id, creator)
	return args.Error(0)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, asset entities.LocalAsset, kind entities.Kind) (string, error) {
	args := m.Called(ctx, asset, kind)
	return args.String(0), args.Error(1)
}
