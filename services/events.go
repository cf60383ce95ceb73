package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/yeremiapane/buffet-app/models"
	"gorm.io/gorm"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// recordEvent must be called with the transaction that made the change, so
// the event is only visible if the change commits.
func recordEvent(tx *gorm.DB, kind, message string, orderID, itemID, tableID *uint) error {
	return tx.Create(&models.Event{
		Kind:        kind,
		OrderID:     orderID,
		OrderItemID: itemID,
		TableID:     tableID,
		Message:     message,
	}).Error
}

// EventService serves the event feed that the staff screens poll.
//
// Event ids are assigned at insert but become visible at commit, so a
// younger id can show up before an older one. Readers only see events
// older than the settle window, and never past the oldest event still
// inside it, so a cursor built from returned ids does not skip a late
// commit that finishes within the window.
type EventService struct {
	db     *gorm.DB
	settle time.Duration
	now    func() time.Time
}

func NewEventService(db *gorm.DB, settle time.Duration) *EventService {
	if settle < 0 {
		settle = 0
	}
	return &EventService{db: db, settle: settle, now: time.Now}
}

// settled scopes the event table to committed events after afterID that
// are safe to hand out.
func (s *EventService) settled(ctx context.Context, afterID uint) (*gorm.DB, error) {
	db := s.db.WithContext(ctx)
	cutoff := s.now().Add(-s.settle)

	var fence sql.NullInt64
	err := db.Model(&models.Event{}).
		Select("MIN(id)").
		Where("id > ? AND created_at > ?", afterID, cutoff).
		Row().Scan(&fence)
	if err != nil {
		return nil, err
	}

	query := db.Model(&models.Event{}).Where("id > ? AND created_at <= ?", afterID, cutoff)
	if fence.Valid {
		query = query.Where("id < ?", fence.Int64)
	}
	return query, nil
}

// ListAfter returns settled events with an id greater than afterID, oldest
// first.
func (s *EventService) ListAfter(ctx context.Context, afterID uint, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	query, err := s.settled(ctx, afterID)
	if err != nil {
		return nil, storageError("list events", err)
	}

	var events []models.Event
	if err := query.Order("id ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, storageError("list events", err)
	}
	return events, nil
}

// LatestID returns the id of the newest settled event, or 0 when there are
// none.
func (s *EventService) LatestID(ctx context.Context) (uint, error) {
	query, err := s.settled(ctx, 0)
	if err != nil {
		return 0, storageError("latest event", err)
	}

	var id uint
	if err := query.Select("COALESCE(MAX(id), 0)").Row().Scan(&id); err != nil {
		return 0, storageError("latest event", err)
	}
	return id, nil
}
