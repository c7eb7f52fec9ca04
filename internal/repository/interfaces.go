package repository

import (
	"context"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Insert(ctx context.Context, rec *activity.Record) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error)
	ListSimple(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error)
	DistinctTags(ctx context.Context) ([]activity.Tag, error)
	DistinctColors(ctx context.Context) ([]string, error)
	Cleanup() error
}

// EntityResolver resolves host entity snapshots
type EntityResolver interface {
	Entity(ctx context.Context, id string) (*activity.Entity, error)
	EntityForTab(ctx context.Context, tabID string) (*activity.Entity, error)
}
