package moderator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Moderator applies moderation actions to items and records them in the
// audit log.
//
// Status changes run in a store transaction that reads the prior status, so
// the audit event carries the true prior status even when another session
// changes the item concurrently. The audit event is written after the commit;
// if the process dies in between, the event is lost.
type Moderator struct {
	store Store
	audit AuditSink
	log   *zap.Logger
}

func NewModerator(store Store, audit AuditSink) *Moderator {
	return &Moderator{store: store, audit: audit, log: zap.NewNop()}
}

func (m *Moderator) WithLogger(log *zap.Logger) *Moderator {
	if log != nil {
		m.log = log
	}

	return m
}

// MarkClaimed sets the item status to claimed on behalf of actor.
func (m *Moderator) MarkClaimed(ctx context.Context, actor *Actor, id string) error {
	return m.transition(ctx, actor, id, ActionMarkClaimed, ItemPatch{
		Status:    StatusClaimed,
		ClaimedBy: actor.uid(),
	})
}

// Flag sets the item status to flagged.
func (m *Moderator) Flag(ctx context.Context, actor *Actor, id string) error {
	return m.transition(ctx, actor, id, ActionFlag, ItemPatch{Status: StatusFlagged})
}

// HardDelete removes the item permanently.
func (m *Moderator) HardDelete(ctx context.Context, actor *Actor, id string) error {
	if err := authorize(actor); err != nil {
		return err
	}

	before, err := m.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ActionHardDelete, id, err)
	}

	if err = m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s %s: %w", ActionHardDelete, id, err)
	}

	m.log.Info("item_deleted", zap.String("id", id), zap.String("actor", actor.UID))

	return m.record(ctx, NewAuditEvent(actor, id, ActionHardDelete, before.Status, StatusDeletedFromDB))
}

func (m *Moderator) transition(ctx context.Context, actor *Actor, id, action string, patch ItemPatch) error {
	if err := authorize(actor); err != nil {
		return err
	}

	var oldStatus Status
	err := m.store.RunTransaction(ctx, func(tx Tx) error {
		before, err := tx.Get(id)
		if err != nil {
			return err
		}
		oldStatus = before.Status

		return tx.Update(id, patch)
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, id, err)
	}

	m.log.Info("item_status_changed",
		zap.String("id", id),
		zap.String("actor", actor.UID),
		zap.String("old_status", string(oldStatus.OrActive())),
		zap.String("new_status", string(patch.Status)),
	)

	return m.record(ctx, NewAuditEvent(actor, id, action, oldStatus, patch.Status))
}

// record writes the audit event of a committed mutation. The mutation stays
// committed when the write fails.
func (m *Moderator) record(ctx context.Context, event AuditEvent) error {
	if err := m.audit.Append(ctx, event); err != nil {
		m.log.Error("audit_write_failed",
			zap.String("post_id", event.PostID),
			zap.String("action", event.Action),
			zap.Error(err),
		)

		return errors.Join(ErrAuditNotRecorded, err)
	}

	return nil
}

// authorize is the client-side staff check. The store enforces its own access
// rules independently.
func authorize(actor *Actor) error {
	if actor == nil {
		return ErrNotSignedIn
	}
	if !actor.IsStaff() {
		return ErrPermissionDenied
	}

	return nil
}

func (a *Actor) uid() string {
	if a == nil {
		return ""
	}

	return a.UID
}
