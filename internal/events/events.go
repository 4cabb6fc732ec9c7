// Package events publishes notifications about committed ledger mutations so
// that dashboards can refresh cached balances and lists.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Event types. They double as AMQP routing keys.
const (
	AccountCreated     = "account.created"
	AccountUpdated     = "account.updated"
	AccountDeleted     = "account.deleted"
	AccountDrifted     = "account.drifted"
	CategoryCreated    = "category.created"
	CategoryUpdated    = "category.updated"
	CategoryDeleted    = "category.deleted"
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	TransferCreated    = "transfer.created"
	TransferDeleted    = "transfer.deleted"
	PayableCreated     = "payable.created"
	PayableUpdated     = "payable.updated"
	PayableDeleted     = "payable.deleted"
	PayableCancelled   = "payable.cancelled"
	PayablePaid        = "payable.paid"
	BudgetItemCreated  = "budget_item.created"
	BudgetItemUpdated  = "budget_item.updated"
	BudgetItemDeleted  = "budget_item.deleted"
	TenantCreated      = "tenant.created"
)

// Event describes one committed mutation.
type Event struct {
	Type       string    `json:"type"`
	TenantID   string    `json:"tenant_id"`
	ResourceID string    `json:"resource_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New creates an event stamped with the current UTC time.
func New(eventType, tenantID, resourceID string) Event {
	return Event{
		Type:       eventType,
		TenantID:   tenantID,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON encodes the event as a message body.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes a message body.
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }

// MemoryPublisher keeps published events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryPublisher creates an empty MemoryPublisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

// Events returns a copy of the events published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the type of every published event, in order.
func (p *MemoryPublisher) Types() []string {
	evs := p.Events()
	types := make([]string, len(evs))
	for i, e := range evs {
		types[i] = e.Type
	}
	return types
}
