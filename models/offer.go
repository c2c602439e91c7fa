package models

import "time"

// OfferStatus is the decision state of an offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "PENDING"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferRejected OfferStatus = "REJECTED"
)

// Offer is a collector's proposal to service a PICKUP discard.
type Offer struct {
	ID            string      `bson:"id" json:"id"`
	DiscardID     string      `bson:"discardId" json:"discardId"`
	CollectorID   string      `bson:"collectorId" json:"collectorId"`
	ProposedSlots []TimeSlot  `bson:"proposedSlots" json:"proposedSlots"`
	Status        OfferStatus `bson:"status" json:"status"`
	AcceptedSlot  *TimeSlot   `bson:"acceptedSlot,omitempty" json:"acceptedSlot,omitempty"`
	Version       int64       `bson:"version" json:"version"`
	CreatedAt     time.Time   `bson:"createdAt" json:"createdAt"`
	EditedAt      time.Time   `bson:"editedAt" json:"editedAt"`
}

// OfferFilter narrows offer listings. Zero fields are ignored.
type OfferFilter struct {
	DiscardID   string
	CollectorID string
	Status      OfferStatus
}
