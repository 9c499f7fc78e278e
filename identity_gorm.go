package moderator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserClaims is the stored set of custom claims of an account.
type UserClaims struct {
	UID       string `gorm:"primaryKey;size:128"`
	Email     string
	Role      Role `gorm:"size:16"`
	UpdatedAt time.Time
}

func (UserClaims) TableName() string {
	return "user_claims"
}

// GORMIdentity is an IdentityProvider over the user_claims table. It signs in
// as one configured account; claims are re-read from the table on every
// FreshClaims call.
type GORMIdentity struct {
	db  *gorm.DB
	uid string
	log *zap.Logger

	mu       sync.Mutex
	signedIn *Principal
}

func NewGORMIdentity(db *gorm.DB, uid string) *GORMIdentity {
	return &GORMIdentity{db: db, uid: uid, log: zap.NewNop()}
}

func (g *GORMIdentity) WithLogger(log *zap.Logger) *GORMIdentity {
	if log != nil {
		g.log = log
	}

	return g
}

func (g *GORMIdentity) SignIn(ctx context.Context) (*Principal, error) {
	if g.uid == "" {
		return nil, fmt.Errorf("%w: no account configured", ErrAuthenticationFailed)
	}

	row, err := g.load(ctx, g.uid)
	if err != nil {
		return nil, err
	}

	principal := &Principal{UID: row.UID, Email: row.Email}

	g.mu.Lock()
	g.signedIn = principal
	g.mu.Unlock()

	g.log.Info("signed_in", zap.String("uid", principal.UID), zap.String("email", principal.Email))

	return principal, nil
}

func (g *GORMIdentity) SignOut(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.signedIn != nil {
		g.log.Info("signed_out", zap.String("uid", g.signedIn.UID))
	}
	g.signedIn = nil

	return nil
}

func (g *GORMIdentity) FreshClaims(ctx context.Context, principal *Principal) (Claims, error) {
	if principal == nil {
		return nil, ErrNotSignedIn
	}

	row, err := g.load(ctx, principal.UID)
	if err != nil {
		return nil, err
	}

	claims := Claims{"email": row.Email}
	if row.Role != "" {
		claims[ClaimRole] = string(row.Role)
	}

	return claims, nil
}

// SetRole assigns a staff role to an account, creating its claims record
// when missing. The change is visible on the account's next FreshClaims.
func (g *GORMIdentity) SetRole(ctx context.Context, uid, email string, role Role) error {
	if _, err := ValidateRole(string(role)); err != nil {
		return err
	}
	if uid == "" {
		return fmt.Errorf("set role: empty uid")
	}

	columns := []string{"role", "updated_at"}
	if email != "" {
		columns = append(columns, "email")
	}

	row := UserClaims{UID: uid, Email: email, Role: role}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("set role for %s: %w", uid, err)
	}

	g.log.Info("role_assigned", zap.String("uid", uid), zap.String("role", string(role)))

	return nil
}

func (g *GORMIdentity) load(ctx context.Context, uid string) (*UserClaims, error) {
	var row UserClaims
	err := g.db.WithContext(ctx).Where("uid = ?", uid).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: unknown account %s", ErrAuthenticationFailed, uid)
	} else if err != nil {
		return nil, fmt.Errorf("load claims of %s: %w", uid, err)
	}

	return &row, nil
}

var _ IdentityProvider = (*GORMIdentity)(nil)
