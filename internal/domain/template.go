package domain

import (
	"time"

	"github.com/google/uuid"
)

// Template is a reusable prototype for logging a recurring trip.
// Names are free text and need not be unique.
type Template struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Purpose        Purpose   `json:"purpose"`
	Project        *string   `json:"project"`
	NotesHint      *string   `json:"notesHint"`
	Favorite       bool      `json:"favorite"`
	StartAddressID uuid.UUID `json:"startAddressId"`
	DestAddressID  uuid.UUID `json:"destAddressId"`
	StartAddress   *Address  `json:"startAddress,omitempty"`
	DestAddress    *Address  `json:"destAddress,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
