package activity

import (
	"fmt"
	"time"
)

// ListOptions provides pagination and a lower time bound for listing activity.
type ListOptions struct {
	Limit  int
	Offset int

	// Since drops records captured before it. Zero means no bound.
	Since time.Time
}

// Validate rejects negative pagination values. Zero means unbounded.
func (o ListOptions) Validate() error {
	if o.Limit < 0 || o.Offset < 0 {
		return fmt.Errorf("%w: limit %d offset %d", ErrInvalidInput, o.Limit, o.Offset)
	}
	return nil
}
