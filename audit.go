package moderator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Action names recorded in the audit log.
const (
	ActionMarkClaimed = "mark_claimed"
	ActionFlag        = "flag"
	ActionHardDelete  = "hard_delete"
)

// AuditEvent records one moderation action.
type AuditEvent struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PostID     string    `gorm:"size:64;index" json:"postId"`
	Action     string    `gorm:"size:32" json:"action"`
	ActorUID   string    `gorm:"size:128" json:"actorUid"`
	ActorEmail string    `json:"actorEmail"`
	ActorRole  Role      `gorm:"size:16" json:"actorRole"`
	TS         time.Time `gorm:"column:ts" json:"ts"`
	OldStatus  Status    `gorm:"size:16" json:"oldStatus"`
	NewStatus  Status    `gorm:"size:16" json:"newStatus"`
}

func (AuditEvent) TableName() string {
	return "moderation_events"
}

// NewAuditEvent fills the actor fields and a fresh id.
func NewAuditEvent(actor *Actor, postID, action string, oldStatus, newStatus Status) AuditEvent {
	return AuditEvent{
		ID:         uuid.NewString(),
		PostID:     postID,
		Action:     action,
		ActorUID:   actor.UID,
		ActorEmail: actor.Email,
		ActorRole:  actor.Claims.Role(),
		OldStatus:  oldStatus.OrActive(),
		NewStatus:  newStatus,
	}
}

// AuditSink is an append-only log of moderation events.
type AuditSink interface {
	Append(ctx context.Context, event AuditEvent) error
}

// GORMAuditSink appends audit events to the moderation_events table.
type GORMAuditSink struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewGORMAuditSink(db *gorm.DB) *GORMAuditSink {
	return &GORMAuditSink{db: db, log: zap.NewNop(), now: time.Now}
}

func (s *GORMAuditSink) WithLogger(log *zap.Logger) *GORMAuditSink {
	if log != nil {
		s.log = log
	}

	return s
}

// Append stores the event, stamping TS with the sink's clock when unset.
func (s *GORMAuditSink) Append(ctx context.Context, event AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.TS.IsZero() {
		event.TS = s.now().UTC()
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}

	s.log.Info("audit_recorded",
		zap.String("post_id", event.PostID),
		zap.String("action", event.Action),
		zap.String("actor", event.ActorUID),
		zap.String("old_status", string(event.OldStatus)),
		zap.String("new_status", string(event.NewStatus)),
	)

	return nil
}

var _ AuditSink = (*GORMAuditSink)(nil)
