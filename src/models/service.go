package models

import "bookings/src/types"

// Service is owned by another system; this API only reads it.
type Service struct {
	ID          string  `gorm:"primarykey" firestore:"-" json:"id"`
	Title       string  `firestore:"title" json:"title"`
	Category    string  `firestore:"category" json:"category"`
	Price       float64 `firestore:"price" json:"price"`
	Description string  `firestore:"description,omitempty" json:"description,omitempty"`
	ProviderID  string  `firestore:"providerId,omitempty" json:"providerId,omitempty"`

	types.Timestamps
}

type ServiceSnapshot struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

func (s *Service) Snapshot() *ServiceSnapshot {
	return &ServiceSnapshot{
		Title:    s.Title,
		Category: s.Category,
		Price:    s.Price,
	}
}
