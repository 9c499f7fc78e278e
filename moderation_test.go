package moderator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActor(uid string, role Role) *Actor {
	claims := Claims{"email": uid + "@staff.example.com"}
	if role != "" {
		claims[ClaimRole] = string(role)
	}

	return &Actor{
		Principal: Principal{UID: uid, Email: uid + "@staff.example.com"},
		Claims:    claims,
	}
}

func Test_Moderator_MarkClaimed(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(newTestItems(3, nil)...)
	audit := &memAudit{}
	mod := NewModerator(store, audit)
	admin := newTestActor("admin-1", RoleAdmin)

	require.NoError(t, mod.MarkClaimed(ctx, admin, "item-01"))

	item, ok := store.item("item-01")
	require.True(t, ok)
	assert.Equal(t, StatusClaimed, item.Status)
	assert.Equal(t, "admin-1", item.ClaimedBy)

	events := audit.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "item-01", events[0].PostID)
	assert.Equal(t, ActionMarkClaimed, events[0].Action)
	assert.Equal(t, "admin-1", events[0].ActorUID)
	assert.Equal(t, "admin-1@staff.example.com", events[0].ActorEmail)
	assert.Equal(t, RoleAdmin, events[0].ActorRole)
	assert.Equal(t, StatusActive, events[0].OldStatus)
	assert.Equal(t, StatusClaimed, events[0].NewStatus)
	assert.NotEmpty(t, events[0].ID)
}

func Test_Moderator_Flag(t *testing.T) {
	tests := []struct {
		name      string
		stored    Status
		wantOld   Status
		actorRole Role
	}{
		{"mod flags active item", StatusActive, StatusActive, RoleMod},
		{"admin flags claimed item", StatusClaimed, StatusClaimed, RoleAdmin},
		{"missing status recorded as active", "", StatusActive, RoleMod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(newTestItems(1, func(_ int, item *Item) {
				item.Status = tt.stored
			})...)
			audit := &memAudit{}

			err := NewModerator(store, audit).Flag(context.Background(), newTestActor("staff", tt.actorRole), "item-00")
			require.NoError(t, err)

			item, _ := store.item("item-00")
			assert.Equal(t, StatusFlagged, item.Status)
			assert.Empty(t, item.ClaimedBy)

			events := audit.recorded()
			require.Len(t, events, 1)
			assert.Equal(t, ActionFlag, events[0].Action)
			assert.Equal(t, tt.wantOld, events[0].OldStatus)
			assert.Equal(t, StatusFlagged, events[0].NewStatus)
			assert.Equal(t, tt.actorRole, events[0].ActorRole)
		})
	}
}

func Test_Moderator_HardDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(newTestItems(2, func(_ int, item *Item) {
		item.Status = StatusFlagged
	})...)
	audit := &memAudit{}
	mod := NewModerator(store, audit)

	require.NoError(t, mod.HardDelete(ctx, newTestActor("admin-1", RoleAdmin), "item-00"))

	_, err := store.Get(ctx, "item-00")
	require.ErrorIs(t, err, ErrNotFound)

	events := audit.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, ActionHardDelete, events[0].Action)
	assert.Equal(t, StatusFlagged, events[0].OldStatus)
	assert.Equal(t, StatusDeletedFromDB, events[0].NewStatus)

	// Deleting again fails and records nothing.
	err = mod.HardDelete(ctx, newTestActor("admin-1", RoleAdmin), "item-00")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, audit.recorded(), 1)
}

func Test_Moderator_Unauthorized(t *testing.T) {
	tests := []struct {
		name    string
		actor   *Actor
		wantErr error
	}{
		{"signed out", nil, ErrNotSignedIn},
		{"no role", newTestActor("user-1", ""), ErrPermissionDenied},
		{"unknown role", newTestActor("user-2", Role("owner")), ErrPermissionDenied},
	}

	actions := map[string]func(*Moderator, context.Context, *Actor, string) error{
		"claim":  (*Moderator).MarkClaimed,
		"flag":   (*Moderator).Flag,
		"delete": (*Moderator).HardDelete,
	}

	for _, tt := range tests {
		for name, action := range actions {
			t.Run(tt.name+" "+name, func(t *testing.T) {
				store := newMemStore(newTestItems(1, nil)...)
				audit := &memAudit{}

				err := action(NewModerator(store, audit), context.Background(), tt.actor, "item-00")
				require.ErrorIs(t, err, tt.wantErr)

				assert.Zero(t, store.calls())
				assert.Empty(t, audit.recorded())

				item, ok := store.item("item-00")
				require.True(t, ok)
				assert.Equal(t, StatusActive, item.Status)
			})
		}
	}
}

func Test_Moderator_NotFound(t *testing.T) {
	store := newMemStore(newTestItems(1, nil)...)
	audit := &memAudit{}
	mod := NewModerator(store, audit)

	err := mod.Flag(context.Background(), newTestActor("mod-1", RoleMod), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, audit.recorded())
	assert.Equal(t, 1, store.txCount)
}

func Test_Moderator_AuditFailure(t *testing.T) {
	ctx := context.Background()
	errAudit := errors.New("audit store down")
	store := newMemStore(newTestItems(2, nil)...)
	audit := &memAudit{err: errAudit}
	mod := NewModerator(store, audit)
	admin := newTestActor("admin-1", RoleAdmin)

	err := mod.MarkClaimed(ctx, admin, "item-00")
	require.ErrorIs(t, err, ErrAuditNotRecorded)
	require.ErrorIs(t, err, errAudit)

	// The mutation stays committed.
	item, _ := store.item("item-00")
	assert.Equal(t, StatusClaimed, item.Status)

	err = mod.HardDelete(ctx, admin, "item-01")
	require.ErrorIs(t, err, ErrAuditNotRecorded)
	_, ok := store.item("item-01")
	assert.False(t, ok)
}

func Test_NewAuditEvent(t *testing.T) {
	actor := newTestActor("mod-7", RoleMod)

	a := NewAuditEvent(actor, "post-1", ActionFlag, "", StatusFlagged)
	b := NewAuditEvent(actor, "post-1", ActionFlag, StatusClaimed, StatusFlagged)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, StatusActive, a.OldStatus)
	assert.Equal(t, StatusClaimed, b.OldStatus)
	assert.Equal(t, RoleMod, a.ActorRole)
	assert.True(t, a.TS.IsZero())
}
