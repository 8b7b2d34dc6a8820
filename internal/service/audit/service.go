// Package audit records who-changed-what notes for every committed mutation.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

// Publisher forwards events to an external bus.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service persists audit events and optionally publishes them.
type Service struct {
	store     repository.AuditStore
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates the recorder. publisher may be nil.
func NewService(store repository.AuditStore, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Record stores one event. The mutation it describes has already
// committed, so failures are logged and not returned.
func (s *Service) Record(ctx context.Context, entity string, entityID int64, action models.AuditAction, detail string) {
	event := models.AuditEvent{
		ID:       uuid.NewString(),
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Detail:   detail,
		At:       s.now().UTC(),
	}

	if err := s.store.AppendAudit(ctx, event); err != nil {
		s.logger.Error("failed to persist audit event",
			zap.String("entity", entity),
			zap.Int64("entity_id", entityID),
			zap.String("action", string(action)),
			zap.Error(err))
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, entity, event); err != nil {
		s.logger.Warn("failed to publish audit event", zap.String("event_id", event.ID), zap.Error(err))
	}
}

// List returns the newest events first. A non-positive limit returns all.
func (s *Service) List(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	events, err := s.store.ListAudit(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", models.WrapStorage("list audit", err))
	}
	return events, nil
}
