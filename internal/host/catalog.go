// Package host keeps the entity snapshots and open tabs pushed by the host
// application so notifications can be attributed without calling back into it.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/repository"
)

var _ repository.EntityResolver = (*Catalog)(nil)

// Catalog is an in-memory entity catalog. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	entities map[string]activity.Entity
	tabs     map[string]string
	logger   *slog.Logger
}

// NewCatalog creates an empty catalog.
func NewCatalog(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		entities: make(map[string]activity.Entity),
		tabs:     make(map[string]string),
		logger:   logger,
	}
}

// Upsert stores entity snapshots, replacing any with the same id.
func (c *Catalog) Upsert(entities ...activity.Entity) error {
	for _, e := range entities {
		if e.ID == "" {
			return fmt.Errorf("%w: entity without id", repository.ErrInvalidInput)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entities {
		c.entities[e.ID] = e
	}
	c.logger.Debug("entities upserted", "count", len(entities))
	return nil
}

// Remove forgets an entity.
func (c *Catalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entities, id)
}

// SetTab maps an open tab to the item it displays.
func (c *Catalog) SetTab(tabID, itemID string) error {
	if tabID == "" || itemID == "" {
		return fmt.Errorf("%w: tab and item id are required", repository.ErrInvalidInput)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabs[tabID] = itemID
	return nil
}

// RemoveTab forgets a closed tab.
func (c *Catalog) RemoveTab(tabID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tabs, tabID)
}

// Size returns the number of entities and tabs held.
func (c *Catalog) Size() (entities, tabs int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities), len(c.tabs)
}

// Entity returns a copy of the snapshot for id.
func (c *Catalog) Entity(_ context.Context, id string) (*activity.Entity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entities[id]
	if !ok {
		return nil, activity.ErrEntityNotFound
	}
	return &e, nil
}

// EntityForTab returns the snapshot of the item shown in tabID.
func (c *Catalog) EntityForTab(ctx context.Context, tabID string) (*activity.Entity, error) {
	c.mu.RLock()
	itemID, ok := c.tabs[tabID]
	c.mu.RUnlock()
	if !ok {
		return nil, activity.ErrEntityNotFound
	}
	return c.Entity(ctx, itemID)
}
