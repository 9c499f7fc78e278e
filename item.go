package moderator

import (
	"strings"
	"time"
)

// Status is the moderation state of an item.
type Status string

const (
	StatusActive  Status = "active"
	StatusFlagged Status = "flagged"
	StatusClaimed Status = "claimed"
	StatusDeleted Status = "deleted"

	// StatusDeletedFromDB is recorded as the new status of a hard delete. It
	// never appears on a stored item.
	StatusDeletedFromDB Status = "deleted_from_db"
)

// OrActive returns StatusActive for items stored without a status.
func (s Status) OrActive() Status {
	if s == "" {
		return StatusActive
	}

	return s
}

// ItemType tells whether a listing reports a lost or a found object.
type ItemType string

const (
	TypeLost  ItemType = "lost"
	TypeFound ItemType = "found"
)

// Column names of the items collection used in ordering and cursors.
const (
	ColumnID        = "id"
	ColumnTimestamp = "posted_at"
	ColumnStatus    = "status"
	ColumnType      = "type"
)

// Item is a user-submitted listing. Items are owned by the listing service;
// the console only reads them and changes their status.
type Item struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `gorm:"size:64" json:"category"`
	Type           ItemType  `gorm:"size:16;index:idx_items_type_posted,priority:1" json:"type"`
	Status         Status    `gorm:"size:16;index:idx_items_status_posted,priority:1" json:"status"`
	StationOrTrain string    `json:"stationOrTrain"`
	Date           string    `json:"date"`
	DateStrNorm    string    `gorm:"column:date_str_norm;size:10" json:"date_str_norm"`
	PhotoURL       string    `json:"photoUrl"`
	PostedBy       string    `gorm:"size:128" json:"postedBy"`
	PostedByEmail  string    `json:"postedByEmail"`
	ClaimedBy      string    `gorm:"size:128" json:"claimedBy"`
	Timestamp      time.Time `gorm:"column:posted_at;index:idx_items_status_posted,priority:2;index:idx_items_type_posted,priority:2" json:"timestamp"`
}

func (Item) TableName() string {
	return "items"
}

// Marker returns the position of the item in the listing order.
func (i Item) Marker() Marker {
	return Marker{ID: i.ID, Timestamp: i.Timestamp}
}

// DisplayDate returns the calendar date part of Date ("2024-05-01T10:00:00Z"
// becomes "2024-05-01").
func (i Item) DisplayDate() string {
	date, _, _ := strings.Cut(i.Date, "T")
	return date
}

// Marker is the position of a fetched document in the listing order. Pages
// are delimited by the markers of their first and last raw documents.
type Marker struct {
	ID        string
	Timestamp time.Time
}

var markerGetters = Getters[Marker]{
	ColumnTimestamp: func(m Marker) any { return m.Timestamp },
	ColumnID:        func(m Marker) any { return m.ID },
}
