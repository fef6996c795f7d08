package models

import (
	"bookings/src/types"
	"fmt"
)

type Reservation struct {
	ID         string                  `gorm:"primarykey" firestore:"-" json:"id"`
	ClientID   string                  `gorm:"index;not null" firestore:"clientId" json:"clientId"`
	ServiceID  string                  `gorm:"index:idx_reservations_slot;not null" firestore:"serviceId" json:"serviceId"`
	ProviderID string                  `gorm:"index;not null" firestore:"providerId" json:"providerId"`
	Date       string                  `gorm:"index:idx_reservations_slot;not null" firestore:"date" json:"date"`
	StartTime  string                  `gorm:"not null" firestore:"startTime" json:"startTime"`
	EndTime    string                  `gorm:"not null" firestore:"endTime" json:"endTime"`
	TotalPrice float64                 `firestore:"totalPrice" json:"totalPrice"`
	Status     types.ReservationStatus `gorm:"default:'pending'" firestore:"status" json:"status"`

	types.Timestamps
}

// SlotKey identifies the (service, date) bucket a reservation competes in.
func (r *Reservation) SlotKey() string {
	return SlotKey(r.ServiceID, r.Date)
}

func SlotKey(serviceID, date string) string {
	return fmt.Sprintf("%s_%s", serviceID, date)
}

// SlotLock is rewritten inside every create transaction for its slot so that
// concurrent creates for the same service and date serialise on it.
type SlotLock struct {
	ID      string `gorm:"primarykey" firestore:"-"`
	Version int64  `firestore:"version"`

	types.Timestamps
}

// ReservationWithService is a reservation enriched with a snapshot of the
// service it references. Service is nil when the lookup failed.
type ReservationWithService struct {
	*Reservation
	Service *ServiceSnapshot
}

func (r ReservationWithService) ToAPIResponse() types.APIResponseReservation {
	out := types.APIResponseReservation{
		ID:         r.ID,
		ClientID:   r.ClientID,
		ServiceID:  r.ServiceID,
		ProviderID: r.ProviderID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		TotalPrice: r.TotalPrice,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Service != nil {
		out.Service = &types.APIResponseService{
			Title:    r.Service.Title,
			Category: r.Service.Category,
			Price:    r.Service.Price,
		}
	}
	return out
}
