package moderator

import "errors"

var (
	// ErrNotFound is returned when the target item no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery is returned for queries the store cannot serve.
	ErrInvalidQuery = errors.New("invalid query")

	ErrNotSignedIn      = errors.New("not signed in")
	ErrNotStaff         = errors.New("access restricted to staff")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidRole      = errors.New(`invalid role: use "admin" or "mod"`)

	// ErrAuditNotRecorded is returned when a mutation committed but its audit
	// event could not be written.
	ErrAuditNotRecorded = errors.New("audit event not recorded")

	// ErrFetchInFlight is returned when a page fetch is requested while
	// another one on the same pager has not finished.
	ErrFetchInFlight = errors.New("page fetch already in progress")

	// ErrPageSuperseded is returned when the pager was reset while the fetch
	// was running. The fetched page is discarded.
	ErrPageSuperseded = errors.New("page superseded by reset")

	ErrNoEmail = errors.New("no email on file")
)

// ErrAuthenticationFailed is returned when the identity provider rejects a
// sign-in.
var ErrAuthenticationFailed = errors.New("authentication failed")
