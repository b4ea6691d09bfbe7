package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purpose classifies a trip or template for tax purposes.
type Purpose string

const (
	PurposeBusiness Purpose = "BUSINESS"
	PurposePrivate  Purpose = "PRIVATE"
)

// ParsePurpose maps free input to a Purpose. Anything other than the exact
// string "PRIVATE" is a business trip.
func ParsePurpose(s string) Purpose {
	if s == string(PurposePrivate) {
		return PurposePrivate
	}
	return PurposeBusiness
}

// Trip is a single logged journey between two addresses.
// Distance is always EndKm - StartKm; it is stored so reads need no arithmetic.
// StartAddress and DestAddress are populated on reads.
type Trip struct {
	ID             uuid.UUID `json:"id"`
	Date           time.Time `json:"date"`
	Purpose        Purpose   `json:"purpose"`
	Project        *string   `json:"project"`
	Notes          *string   `json:"notes"`
	StartKm        int64     `json:"startKm"`
	EndKm          int64     `json:"endKm"`
	Distance       int64     `json:"distance"`
	StartAddressID uuid.UUID `json:"startAddressId"`
	DestAddressID  uuid.UUID `json:"destAddressId"`
	StartAddress   *Address  `json:"startAddress,omitempty"`
	DestAddress    *Address  `json:"destAddress,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
