// Package repository holds what the Mongo repositories share.
package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("document not found")
	// ErrStaleWrite is returned when a compare-and-swap save finds that the
	// stored version moved on since the document was read.
	ErrStaleWrite = errors.New("document was modified concurrently")
)

// Collection names.
const (
	DiscardsCollection         = "discards"
	OffersCollection           = "offers"
	CollectorsCollection       = "collectors"
	CollectionPointsCollection = "collection_points"
	ClientsCollection          = "clients"
)
