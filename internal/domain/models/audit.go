package models

import "time"

// AuditAction is the kind of mutation an audit event describes.
type AuditAction string

const (
	ActionCreate     AuditAction = "create"
	ActionUpdate     AuditAction = "update"
	ActionDelete     AuditAction = "delete"
	ActionTransition AuditAction = "transition"
)

// AuditEvent is one row of the audit trail.
type AuditEvent struct {
	ID       string      `json:"id"`
	Entity   string      `json:"entity"`
	EntityID int64       `json:"entity_id"`
	Action   AuditAction `json:"action"`
	Detail   string      `json:"detail"`
	At       time.Time   `json:"at"`
}
