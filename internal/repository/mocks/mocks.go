package mocks

import (
	"context"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Insert(ctx context.Context, rec *activity.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListSimple(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) DistinctTags(ctx context.Context) ([]activity.Tag, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]activity.Tag); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) DistinctColors(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Cleanup() error {
	args := m.Called()
	return args.Error(0)
}

// EntityResolver is a mock for repository.EntityResolver.
type EntityResolver struct {
	mock.Mock
}

func (m *EntityResolver) Entity(ctx context.Context, id string) (*activity.Entity, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*activity.Entity); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntityResolver) EntityForTab(ctx context.Context, tabID string) (*activity.Entity, error) {
	args := m.Called(ctx, tabID)
	if e, ok := args.Get(0).(*activity.Entity); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
