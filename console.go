package moderator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Notifier shows transient messages to the staff member.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Verb is a moderation action requested from the console.
type Verb string

const (
	VerbClaim  Verb = "claim"
	VerbFlag   Verb = "flag"
	VerbDelete Verb = "delete"
)

// Console is the controller of one staff browsing session. It owns the
// session's Pager and the active filter, and reports every failure through
// its Notifier before returning it. No failure leaves the session unusable.
type Console struct {
	identity  IdentityProvider
	pager     *Pager
	moderator *Moderator
	contact   ContactTemplate
	notifier  Notifier
	log       *zap.Logger

	mu     sync.Mutex
	actor  *Actor
	filter Filter
	items  []Item
}

func NewConsole(identity IdentityProvider, pager *Pager, moderator *Moderator) *Console {
	return &Console{
		identity:  identity,
		pager:     pager,
		moderator: moderator,
		contact:   DefaultContactTemplate(),
		notifier:  NotifierFunc(func(string) {}),
		log:       zap.NewNop(),
	}
}

func (c *Console) WithNotifier(n Notifier) *Console {
	if n != nil {
		c.notifier = n
	}

	return c
}

func (c *Console) WithLogger(log *zap.Logger) *Console {
	if log != nil {
		c.log = log
	}

	return c
}

func (c *Console) WithContactTemplate(tmpl ContactTemplate) *Console {
	c.contact = tmpl
	return c
}

// Items returns the items of the displayed page.
func (c *Console) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.items)
}

// PageNumber returns the displayed page number.
func (c *Console) PageNumber() int {
	return c.pager.Number()
}

// PageSize returns the current page size.
func (c *Console) PageSize() int {
	return c.pager.PageSize()
}

// Actor returns the signed-in staff member, or nil.
func (c *Console) Actor() *Actor {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.actor
}

// Filter returns the active filter.
func (c *Console) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filter
}

// SignIn authenticates, refreshes the claims and, for staff, loads the first
// page. Non-staff accounts stay signed in but see nothing.
func (c *Console) SignIn(ctx context.Context) ([]Item, error) {
	principal, err := c.identity.SignIn(ctx)
	if err != nil {
		return nil, c.fail("Sign-in failed: ", err)
	}

	claims, err := c.identity.FreshClaims(ctx, principal)
	if err != nil {
		return nil, c.fail("Sign-in failed: ", err)
	}

	actor := &Actor{Principal: *principal, Claims: claims}

	c.mu.Lock()
	c.actor = actor
	c.items = nil
	c.mu.Unlock()

	c.pager.Reset()

	if !actor.IsStaff() {
		c.notifier.Notify("Access restricted to staff")
		c.log.Warn("non_staff_sign_in", zap.String("uid", actor.UID))
		return nil, ErrNotStaff
	}

	return c.load(ctx, StepNext)
}

// SignOut ends the session and clears the displayed page.
func (c *Console) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.actor = nil
	c.items = nil
	c.mu.Unlock()

	c.pager.Reset()

	if err := c.identity.SignOut(ctx); err != nil {
		return c.fail("Sign-out failed: ", err)
	}

	return nil
}

// Apply replaces the active filter and shows its first page.
func (c *Console) Apply(ctx context.Context, filter Filter) ([]Item, error) {
	if err := c.requireStaff(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()

	c.pager.Reset()

	return c.load(ctx, StepNext)
}

// Clear drops every filter and shows the first page.
func (c *Console) Clear(ctx context.Context) ([]Item, error) {
	return c.Apply(ctx, Filter{})
}

// SetPageSize changes the page size and shows the first page.
func (c *Console) SetPageSize(ctx context.Context, size int) ([]Item, error) {
	if err := c.requireStaff(); err != nil {
		return nil, err
	}

	c.pager.SetPageSize(size)

	return c.load(ctx, StepNext)
}

// Next shows the following page. When there is none, the current page stays
// displayed.
func (c *Console) Next(ctx context.Context) ([]Item, error) {
	if err := c.requireStaff(); err != nil {
		return nil, err
	}

	page, err := c.fetch(ctx, StepNext)
	if err != nil {
		return nil, err
	}
	if page.IsEmpty() {
		c.notifier.Notify("No more items")
		return c.Items(), nil
	}

	return c.show(page), nil
}

// Prev shows the preceding page.
func (c *Console) Prev(ctx context.Context) ([]Item, error) {
	if err := c.requireStaff(); err != nil {
		return nil, err
	}

	if c.pager.Number() <= 1 {
		c.notifier.Notify("Already at first page")
		return c.Items(), nil
	}

	return c.load(ctx, StepPrev)
}

// Refresh re-reads the displayed page.
func (c *Console) Refresh(ctx context.Context) ([]Item, error) {
	if err := c.requireStaff(); err != nil {
		return nil, err
	}

	return c.load(ctx, StepStay)
}

// Act runs a moderation action on item id and re-reads the displayed page.
func (c *Console) Act(ctx context.Context, verb Verb, id string) ([]Item, error) {
	actor := c.Actor()
	if !actor.IsStaff() {
		c.notifier.Notify("Permission denied")
		return nil, ErrPermissionDenied
	}

	var (
		err  error
		done string
	)
	switch verb {
	case VerbClaim:
		done = "Marked as claimed"
		err = c.moderator.MarkClaimed(ctx, actor, id)
	case VerbFlag:
		done = "Item flagged"
		err = c.moderator.Flag(ctx, actor, id)
	case VerbDelete:
		done = "Item permanently deleted"
		err = c.moderator.HardDelete(ctx, actor, id)
	default:
		err = fmt.Errorf("unknown action %q", verb)
	}

	switch {
	case errors.Is(err, ErrAuditNotRecorded):
		// The change itself is committed.
		c.notifier.Notify(done)
		c.notifier.Notify("Audit log not updated: " + err.Error())
	case err != nil:
		return nil, c.fail("Action failed: ", err)
	default:
		c.notifier.Notify(done)
	}

	items, loadErr := c.load(ctx, StepStay)
	if loadErr != nil {
		return nil, loadErr
	}

	return items, err
}

// Contact builds the mail draft for an item's poster.
func (c *Console) Contact(email string) (string, error) {
	href, err := ComposeContact(email, c.contact)
	if errors.Is(err, ErrNoEmail) {
		c.notifier.Notify("No email on file")
	}

	return href, err
}

func (c *Console) requireStaff() error {
	actor := c.Actor()
	switch {
	case actor == nil:
		c.notifier.Notify("Sign in first")
		return ErrNotSignedIn
	case !actor.IsStaff():
		c.notifier.Notify("Access restricted to staff")
		return ErrNotStaff
	}

	return nil
}

func (c *Console) load(ctx context.Context, step Step) ([]Item, error) {
	page, err := c.fetch(ctx, step)
	if err != nil {
		return nil, err
	}

	return c.show(page), nil
}

func (c *Console) fetch(ctx context.Context, step Step) (*Page, error) {
	page, err := c.pager.Fetch(ctx, step, c.Filter())
	if err != nil {
		return nil, c.fail("Failed to load items: ", err)
	}

	return page, nil
}

func (c *Console) show(page *Page) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = page.Items

	return slices.Clone(c.items)
}

func (c *Console) fail(prefix string, err error) error {
	c.log.Warn("console_action_failed", zap.String("reason", prefix), zap.Error(err))
	c.notifier.Notify(prefix + err.Error())

	return err
}
