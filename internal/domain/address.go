// Package domain contains the core data types for the Fahrtenbuch application.
// This package only depends on uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCountry is assigned to every address created through resolution.
const DefaultCountry = "DE"

// Address is an entry in the address book.
// Label is the human-facing identity and is unique ignoring case.
// Street, Zip and City are nil when unknown; they are never empty strings.
type Address struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Street    *string   `json:"street"`
	Zip       *string   `json:"zip"`
	City      *string   `json:"city"`
	Country   string    `json:"country"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddressInput is the caller-supplied data for resolving an address by label.
type AddressInput struct {
	Label    string  `json:"label"`
	Street   *string `json:"street"`
	Zip      *string `json:"zip"`
	City     *string `json:"city"`
	Favorite bool    `json:"favorite"`
}

// Optional marks a field that may or may not be part of an update.
// The zero value means "leave the stored value alone".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional that overwrites the stored value with v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// AddressPatch describes a partial update of an address.
// A set text field with a nil Value clears the column.
type AddressPatch struct {
	Street   Optional[*string]
	Zip      Optional[*string]
	City     Optional[*string]
	Favorite Optional[bool]
}

// IsEmpty reports whether the patch would change nothing.
func (p AddressPatch) IsEmpty() bool {
	return !p.Street.Set && !p.Zip.Set && !p.City.Set && !p.Favorite.Set
}

// ResolveOutcome tells the caller what address resolution did.
type ResolveOutcome int

const (
	// OutcomeCreated means no address had the label and a new one was inserted.
	OutcomeCreated ResolveOutcome = iota
	// OutcomeMerged means missing fields of the existing address were filled in.
	OutcomeMerged
	// OutcomeUnchanged means the existing address already held everything.
	OutcomeUnchanged
)

func (o ResolveOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeMerged:
		return "merged"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}
