// Package traveler keeps the profiles of registered travelers.
package traveler

import (
	"errors"
	"time"
)

// Errors returned by stores and the service.
var (
	ErrTravelerNotFound = errors.New("traveler not found")
	ErrEmailTaken       = errors.New("email already registered")
)

// IDPrefix prefixes every traveler id.
const IDPrefix = "trv_"

// Traveler is a registered dashboard user.
type Traveler struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	HomeCountry string    `json:"homeCountry,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
