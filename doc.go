// Package moderator implements the staff moderation console of a lost and
// found listing service.
//
// Overview
//
// Staff browse the items collection page by page, narrow it down with filters
// and moderate listings: mark them claimed, flag them or delete them for good.
// Every action is recorded in an append-only audit log.
//
// Key concepts
//   - Pager: cursor-based paging over the items collection, newest first.
//     Status and type filters run in the store; category, station, date and
//     free-text filters run on each fetched page. A page can therefore hold
//     fewer items than the page size.
//   - Store: the ordered items collection. GORMStore serves it from
//     PostgreSQL, MySQL or SQLite using keyset cursors (KeysetCursor,
//     CursorPager) so pages stay stable without offsets.
//   - Moderator: status changes in read-then-write transactions, audited
//     with the prior status.
//   - Console: one staff session; wires identity, pager, moderator and
//     notifications.
package moderator
