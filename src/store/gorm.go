package store

import (
	"bookings/src/models"
	"bookings/src/models/scopes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Service{},
		&models.Reservation{},
		&models.SlotLock{},
	)
}

func (s *GormStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithID(id)).
		First(&svc).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (s *GormStore) ListReservations(ctx context.Context, q ReservationQuery) ([]*models.Reservation, error) {
	var out []*models.Reservation
	err := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Scopes(scopes.Matching(models.Reservation{
			ClientID:   q.ClientID,
			ProviderID: q.ProviderID,
			ServiceID:  q.ServiceID,
			Date:       q.Date,
		}), scopes.NewestFirst).
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReservation takes a row lock on the slot before querying, so a
// second create for the same slot waits until the first commits.
func (s *GormStore) CreateReservation(ctx context.Context, r *models.Reservation, check CheckFunc) (string, error) {
	id := uuid.NewString()
	key := r.SlotKey()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		lock := models.SlotLock{ID: key}
		lock.CreatedAt = now
		lock.UpdatedAt = now
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock).Error; err != nil {
			return err
		}
		if err := tx.
			Scopes(scopes.ForUpdate, scopes.WithID(key)).
			First(&lock).
			Error; err != nil {
			return err
		}
		var existing []*models.Reservation
		if err := tx.
			Scopes(scopes.ForSlot(r.ServiceID, r.Date)).
			Find(&existing).
			Error; err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		row := *r
		row.ID = id
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.SlotLock{}).
			Scopes(scopes.WithID(key)).
			Updates(map[string]any{"version": gorm.Expr("version + 1"), "updated_at": now}).
			Error
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
