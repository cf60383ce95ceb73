package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
)

const (
	relayBatchSize       = 100
	defaultRelayInterval = 2 * time.Second
)

// Publisher delivers an event to an outside consumer.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// EventRelay forwards committed events to a Publisher in id order. The
// event table stays the source of truth; a failed publish is retried from
// the same event on the next tick.
type EventRelay struct {
	events    *EventService
	publisher Publisher
	interval  time.Duration
	lastID    uint
}

// NewEventRelay starts after afterID, so earlier events are not replayed.
func NewEventRelay(events *EventService, publisher Publisher, interval time.Duration, afterID uint) *EventRelay {
	if interval <= 0 {
		interval = defaultRelayInterval
	}
	return &EventRelay{
		events:    events,
		publisher: publisher,
		interval:  interval,
		lastID:    afterID,
	}
}

func (r *EventRelay) LastID() uint {
	return r.lastID
}

// Flush publishes every pending event and returns how many were sent.
func (r *EventRelay) Flush(ctx context.Context) (int, error) {
	sent := 0
	for {
		batch, err := r.events.ListAfter(ctx, r.lastID, relayBatchSize)
		if err != nil {
			return sent, err
		}
		for _, ev := range batch {
			if err := r.publisher.Publish(ctx, ev); err != nil {
				return sent, err
			}
			r.lastID = ev.ID
			sent++
		}
		if len(batch) < relayBatchSize {
			return sent, nil
		}
	}
}

// Run flushes on every tick until ctx is done.
func (r *EventRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	utils.InfoLogger.WithFields(logrus.Fields{
		"after":    r.lastID,
		"interval": r.interval.String(),
	}).Info("Event relay started")

	for {
		select {
		case <-ctx.Done():
			utils.InfoLogger.Printf("Event relay stopped at event %d", r.lastID)
			return nil
		case <-ticker.C:
			sent, err := r.Flush(ctx)
			if err != nil && ctx.Err() == nil {
				utils.ErrorLogger.WithFields(logrus.Fields{
					"last_id": r.lastID,
					"error":   err,
				}).Error("Event relay publish failed")
			}
			if sent > 0 {
				utils.InfoLogger.WithFields(logrus.Fields{
					"sent":    sent,
					"last_id": r.lastID,
				}).Info("Events relayed")
			}
		}
	}
}
