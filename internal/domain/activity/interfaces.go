package activity

import "context"

// Repository provides persistence operations for activity records.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	List(ctx context.Context, opts ListOptions) ([]Record, error)
	ListSimple(ctx context.Context, opts ListOptions) ([]Record, error)
}

// EntityResolver looks up host entity snapshots.
// Both methods return ErrEntityNotFound for unknown ids.
type EntityResolver interface {
	Entity(ctx context.Context, id string) (*Entity, error)
	EntityForTab(ctx context.Context, tabID string) (*Entity, error)
}
