package scopes

import (
	"bookings/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func WithID(id string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

// ForSlot selects the reservations competing for one service on one date.
func ForSlot(serviceID, date string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(&models.Reservation{ServiceID: serviceID, Date: date})
	}
}

// Matching filters on every non-empty field of q.
func Matching(q models.Reservation) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(&models.Reservation{
			ClientID:   q.ClientID,
			ProviderID: q.ProviderID,
			ServiceID:  q.ServiceID,
			Date:       q.Date,
		})
	}
}

// NewestFirst breaks created_at ties on id so repeated lists agree.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at desc").Order("id desc")
}

func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
