// Package store is the document-store boundary of the reservation API.
//
// Three backends satisfy Store: Cloud Firestore (the production store),
// Postgres through gorm, and an in-process map used for local development
// and tests. Errors leaving a backend are plain errors; Classify maps them
// onto the types.ErrorKind taxonomy.
package store

import (
	"bookings/src/models"
	"context"
	"errors"
)

const (
	RESERVATIONS_COLLECTION = "reservations"
	SERVICES_COLLECTION     = "services"
	SLOT_LOCKS_COLLECTION   = "slotLocks"
)

var ErrNotFound = errors.New("document not found")

// ReservationQuery matches on every non-empty field.
type ReservationQuery struct {
	ClientID   string
	ProviderID string
	ServiceID  string
	Date       string
}

// CheckFunc inspects the reservations already stored for a slot. Returning
// an error aborts the create. It may be called more than once when the
// backend retries the transaction.
type CheckFunc func(existing []*models.Reservation) error

type Store interface {
	// GetService returns ErrNotFound when no service has the given id.
	GetService(ctx context.Context, id string) (*models.Service, error)
	// ListReservations returns matches ordered by createdAt, newest first.
	ListReservations(ctx context.Context, q ReservationQuery) ([]*models.Reservation, error)
	// CreateReservation runs check against every reservation sharing r's
	// service and date, then inserts r, as one unit with respect to other
	// creates for the same slot. It returns the assigned id.
	CreateReservation(ctx context.Context, r *models.Reservation, check CheckFunc) (string, error)
}
