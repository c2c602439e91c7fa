package models

import "time"

// DiscardMode selects whether the client drops the waste off or asks for pickup.
type DiscardMode string

const (
	ModeCollectionPoint DiscardMode = "COLLECTION_POINT"
	ModePickup          DiscardMode = "PICKUP"
)

// Valid reports whether m is a known mode.
func (m DiscardMode) Valid() bool {
	return m == ModeCollectionPoint || m == ModePickup
}

// DiscardStatus is the lifecycle state of a discard.
type DiscardStatus string

const (
	DiscardPending   DiscardStatus = "PENDING"
	DiscardOffered   DiscardStatus = "OFFERED"
	DiscardScheduled DiscardStatus = "SCHEDULED"
	DiscardCompleted DiscardStatus = "COMPLETED"
	DiscardCancelled DiscardStatus = "CANCELLED"
)

// IsTerminal reports whether no transition may leave s.
func (s DiscardStatus) IsTerminal() bool {
	return s == DiscardCompleted || s == DiscardCancelled
}

// TimeSlot is a candidate or agreed collection window.
type TimeSlot struct {
	Date  string `bson:"date" json:"date"`   // YYYY-MM-DD
	Start string `bson:"start" json:"start"` // HH:MM
	End   string `bson:"end" json:"end"`     // HH:MM
}

// Discard is a batch of waste a client wants handled.
type Discard struct {
	ID                string        `bson:"id" json:"id"`
	ClientID          string        `bson:"clientId" json:"clientId"`
	Mode              DiscardMode   `bson:"mode" json:"mode"`
	Lines             Lines         `bson:"lines" json:"lines"`
	CollectionPointID string        `bson:"collectionPointId,omitempty" json:"collectionPointId,omitempty"`
	Description       string        `bson:"description,omitempty" json:"description,omitempty"`
	Status            DiscardStatus `bson:"status" json:"status"`
	ScheduledSlot     *TimeSlot     `bson:"scheduledSlot,omitempty" json:"scheduledSlot,omitempty"`
	Version           int64         `bson:"version" json:"version"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	EditedAt          time.Time     `bson:"editedAt" json:"editedAt"`
}

// DiscardFilter narrows discard listings. Zero fields are ignored.
type DiscardFilter struct {
	ClientID string
	Mode     DiscardMode
	Status   DiscardStatus
}
