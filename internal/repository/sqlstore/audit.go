package sqlstore

import (
	"context"
	"fmt"

	"github.com/mamadbah2/foodops/internal/domain/models"
)

// AppendAudit records one audit event.
func (s *Store) AppendAudit(ctx context.Context, event models.AuditEvent) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO audit_events (id, entity, entity_id, action, detail, at) VALUES (?, ?, ?, ?, ?, ?)`),
		event.ID, event.Entity, event.EntityID, string(event.Action), event.Detail, event.At.UTC())
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// ListAudit returns the most recent events first. A non-positive limit
// returns everything.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	query := `SELECT id, entity, entity_id, action, detail, at FROM audit_events ORDER BY at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var (
			e      models.AuditEvent
			action string
		)
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &action, &e.Detail, &e.At); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.Action = models.AuditAction(action)
		events = append(events, e)
	}
	return events, rows.Err()
}
