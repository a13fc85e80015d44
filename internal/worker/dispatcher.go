package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const QueuePurchases = "events:purchases"

// Job is the envelope pushed onto every queue. Consumers live outside this
// service; they BRPOP the queue and decode Payload according to Type.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// PurchaseEvent is the payload of a "purchase.completed" job.
type PurchaseEvent struct {
	RecordID          uint   `json:"record_id"`
	UserID            uint   `json:"user_id"`
	PharmacyName      string `json:"pharmacy_name"`
	MaskName          string `json:"mask_name"`
	Quantity          int    `json:"quantity"`
	TransactionAmount string `json:"transaction_amount"`
}

// Dispatcher enqueues jobs into Redis lists. A nil Dispatcher, or one without
// a client, drops every job.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Enabled reports whether jobs are actually delivered.
func (d *Dispatcher) Enabled() bool { return d != nil && d.rdb != nil }

// EnqueuePurchase pushes a purchase.completed job.
func (d *Dispatcher) EnqueuePurchase(ctx context.Context, ev PurchaseEvent) error {
	return d.enqueue(ctx, QueuePurchases, "purchase.completed", ev)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if !d.Enabled() {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{ID: uuid.NewString(), Type: jobType, OccurredAt: time.Now().UTC(), Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
