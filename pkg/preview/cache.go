package preview

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/agendou/agendou/internal/utils"
	"github.com/agendou/agendou/pkg/conflict"
	"github.com/agendou/agendou/pkg/validator"
)

// Pending is one preview waiting for the user's confirm/edit/cancel choice.
// It retains the exact validated event the preview was rendered from, so a
// later confirmation creates precisely what the user saw.
type Pending struct {
	Handle    string
	ChatID    int64
	MessageID int
	Event     *validator.ValidatedEvent
	Report    conflict.Report
	Warnings  []validator.Warning
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Cache holds pending previews for a bounded time. Nobody is obliged to ever
// answer a preview, so entries carry a TTL and a periodic sweep evicts the
// abandoned ones; without it the pending set would only grow. Consume is
// atomic and at-most-once, mirroring the undo registry.
type Cache struct {
	mu      sync.Mutex
	clock   utils.Clock
	ttl     time.Duration
	entries map[string]*Pending
}

func NewCache(clock utils.Clock, ttl time.Duration) *Cache {
	return &Cache{
		clock:   clock,
		ttl:     ttl,
		entries: map[string]*Pending{},
	}
}

// Put stores the pending preview under its handle and returns it with the
// expiry stamped. Re-using a handle replaces the previous entry.
func (c *Cache) Put(p Pending) Pending {
	now := c.clock.Now()
	p.CreatedAt = now
	p.ExpiresAt = now.Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	stored := p
	c.entries[p.Handle] = &stored
	return p
}

// Consume atomically removes and returns the pending preview if it has not
// expired. Missing and expired handles yield nil; expired entries are
// removed on the way out.
func (c *Cache) Consume(handle string) *Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[handle]
	if !ok {
		return nil
	}
	delete(c.entries, handle)
	if c.clock.Now().After(p.ExpiresAt) {
		return nil
	}
	return p
}

// Peek reads without removing, with the same expiry check.
func (c *Cache) Peek(handle string) *Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[handle]
	if !ok || c.clock.Now().After(p.ExpiresAt) {
		return nil
	}
	copied := *p
	return &copied
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep drops every expired preview and reports how many went.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	evicted := 0
	for handle, p := range c.entries {
		if now.After(p.ExpiresAt) {
			delete(c.entries, handle)
			evicted++
		}
	}
	if evicted > 0 {
		log.Debugf("Swept %d abandoned previews", evicted)
	}
	return evicted
}
