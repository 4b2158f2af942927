package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldnotes/internal/station/app/services"
	"fieldnotes/internal/station/domain/entities"
)

func TestResolveProfile_StoreHitSkipsDirectory(t *testing.T) {
	store := &mockProfileStore{}
	querier := &mockAgentQuerier{}
	directory := services.NewDirectoryService(store, querier)

	cached := &entities.UserProfile{UID: "user-1", Name: "Ana"}
	store.On("FindByUID", mock.Anything, "user-1").Return(cached, nil)

	profile, err := directory.ResolveProfile(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, cached, profile)
	querier.AssertNotCalled(t, "QueryAgent")
}

func TestResolveProfile_StoreMissFallsBackAndWritesBack(t *testing.T) {
	store := &mockProfileStore{}
	querier := &mockAgentQuerier{}
	directory := services.NewDirectoryService(store, querier)

	remote := &entities.UserProfile{UID: "user-1", Name: "Ana"}
	store.On("FindByUID", mock.Anything, "user-1").Return(nil, nil)
	querier.On("QueryAgent", mock.Anything, "user-1").Return(remote, nil)
	store.On("Save", mock.Anything, remote).Return(nil)

	profile, err := directory.ResolveProfile(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, remote, profile)
	store.AssertExpectations(t)
	querier.AssertExpectations(t)
}

func TestResolveProfile_StoreFailureFallsThrough(t *testing.T) {
	store := &mockProfileStore{}
	querier := &mockAgentQuerier{}
	directory := services.NewDirectoryService(store, querier)

	remote := &entities.UserProfile{UID: "user-1", Name: "Ana"}
	store.On("FindByUID", mock.Anything, "user-1").Return(nil, errors.New("redis down"))
	querier.On("QueryAgent", mock.Anything, "user-1").Return(remote, nil)
	store.On("Save", mock.Anything, remote).Return(errors.New("redis down"))

	profile, err := directory.ResolveProfile(context.Background(), "user-1")

	require.NoError(t, err, "store failure must not surface when the directory answers")
	assert.Equal(t, remote, profile)
}

func TestResolveProfile_BothMiss(t *testing.T) {
	store := &mockProfileStore{}
	querier := &mockAgentQuerier{}
	directory := services.NewDirectoryService(store, querier)

	store.On("FindByUID", mock.Anything, "ghost").Return(nil, nil)
	querier.On("QueryAgent", mock.Anything, "ghost").Return(nil, nil)

	profile, err := directory.ResolveProfile(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, profile)
	store.AssertNotCalled(t, "Save")
}

func TestResolveDisplayName_NameMissing(t *testing.T) {
	store := &mockProfileStore{}
	querier := &mockAgentQuerier{}
	directory := services.NewDirectoryService(store, querier)

	store.On("FindByUID", mock.Anything, "user-1").
		Return(&entities.UserProfile{UID: "user-1"}, nil)

	_, err := directory.ResolveDisplayName(context.Background(), "user-1")

	assert.ErrorIs(t, err, services.ErrNameMissing)
}

func TestDisplayName_Sentinels(t *testing.T) {
	tests := []struct {
		name     string
		profile  *entities.UserProfile
		queryErr error
		want     string
	}{
		{
			name:    "name resolves",
			profile: &entities.UserProfile{UID: "user-1", Name: "Ana"},
			want:    "Ana",
		},
		{
			name:    "profile without a name",
			profile: &entities.UserProfile{UID: "user-1"},
			want:    "Unknown Creator",
		},
		{
			name: "profile not found",
			want: "Creator not available",
		},
		{
			name:     "directory failure",
			queryErr: errors.New("store down"),
			want:     "Error retrieving creator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockProfileStore{}
			querier := &mockAgentQuerier{}
			directory := services.NewDirectoryService(store, querier)

			store.On("FindByUID", mock.Anything, "user-1").Return(nil, nil)
			if tt.profile == nil {
				querier.On("QueryAgent", mock.Anything, "user-1").Return(nil, tt.queryErr)
			} else {
				querier.On("QueryAgent", mock.Anything, "user-1").Return(tt.profile, nil)
				store.On("Save", mock.Anything, tt.profile).Return(nil)
			}

			assert.Equal(t, tt.want, directory.DisplayName(context.Background(), "user-1"))
		})
	}
}

func TestRegisterProfile(t *testing.T) {
	store := &mockProfileStore{}
	querier := &mockAgentQuerier{}
	directory := services.NewDirectoryService(store, querier)

	profile := &entities.UserProfile{UID: "user-1", Name: "Ana"}
	querier.On("CreateAgent", mock.Anything, profile).Return("agent/1", nil)
	store.On("Save", mock.Anything, profile).Return(nil)

	id, err := directory.RegisterProfile(context.Background(), profile)

	require.NoError(t, err)
	assert.Equal(t, "agent/1", id)
	store.AssertExpectations(t)
}

func TestRegisterProfile_DirectoryFailure(t *testing.T) {
	store := &mockProfileStore{}
	querier := &mockAgentQuerier{}
	directory := services.NewDirectoryService(store, querier)

	cause := errors.New("store down")
	querier.On("CreateAgent", mock.Anything, mock.Anything).Return("", cause)

	_, err := directory.RegisterProfile(context.Background(), &entities.UserProfile{UID: "user-1"})

	assert.ErrorIs(t, err, cause)
	store.AssertNotCalled(t, "Save")
}
