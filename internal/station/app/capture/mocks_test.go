package capture_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fieldnotes/internal/station/domain/entities"
)

type mockNormalizer struct {
	mock.Mock
}

func (m *mockNormalizer) Normalize(ctx context.Context, asset entities.LocalAsset) (entities.LocalAsset, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(entities.LocalAsset), args.Error(1)
}

type mockThumbnailExtractor struct {
	mock.Mock
}

func (m *mockThumbnailExtractor) ExtractThumbnail(ctx context.Context, asset entities.LocalAsset) (entities.LocalAsset, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(entities.LocalAsset), args.Error(1)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, asset entities.LocalAsset, kind entities.Kind) (string, error) {
	args := m.Called(ctx, asset, kind)
	return args.String(0), args.Error(1)
}
