package types

import "time"

type Timestamps struct {
	CreatedAt time.Time `gorm:"index" firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
	RESERVATION_COMPLETED ReservationStatus = "completed"
)

// Blocking reports whether a reservation in this status still holds its slot.
func (s ReservationStatus) Blocking() bool {
	return s != RESERVATION_CANCELLED
}

type CreateReservationRequestBody struct {
	ServiceID  string `json:"serviceId" binding:"required"`
	ProviderID string `json:"providerId" binding:"required"`
	Date       string `json:"date" binding:"required,isodate"`
	StartTime  string `json:"startTime" binding:"required,hhmm"`
	EndTime    string `json:"endTime" binding:"required,hhmm,aftertime=StartTime"`
	// TotalPrice is read leniently: a number, a numeric string, or anything
	// else (treated as 0).
	TotalPrice float64 `json:"-"`
}

type ReservationQueryParams struct {
	ProviderID string `form:"providerId"`
}

type APIResponseService struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type APIResponseReservation struct {
	ID         string              `json:"id"`
	ClientID   string              `json:"clientId"`
	ServiceID  string              `json:"serviceId"`
	ProviderID string              `json:"providerId"`
	Date       string              `json:"date"`
	StartTime  string              `json:"startTime"`
	EndTime    string              `json:"endTime"`
	TotalPrice float64             `json:"totalPrice"`
	Status     ReservationStatus   `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Service    *APIResponseService `json:"service"`
}
