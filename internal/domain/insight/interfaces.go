package insight

import (
	"context"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// Store is the read side of the activity log.
type Store interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error)
	ListSimple(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error)
	DistinctTags(ctx context.Context) ([]activity.Tag, error)
	DistinctColors(ctx context.Context) ([]string, error)
}
