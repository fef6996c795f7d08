package store

import (
	"bookings/src/models"
	"bookings/src/types"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedFunc func(t *testing.T, svc models.Service)

var errSlotTaken = types.NewError(types.ERR_CONFLICT, "slot taken", nil)

func reservationAt(client, service, provider, date, start, end string, created time.Time) *models.Reservation {
	r := &models.Reservation{
		ClientID:   client,
		ServiceID:  service,
		ProviderID: provider,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		TotalPrice: 50,
		Status:     types.RESERVATION_PENDING,
	}
	r.CreatedAt = created
	r.UpdatedAt = created
	return r
}

// runStoreContract exercises the behaviour every Store backend must share.
func runStoreContract(t *testing.T, s Store, seed seedFunc) {
	ctx := context.Background()
	seed(t, models.Service{ID: "svc1", Title: "Haircut", Category: "beauty", Price: 50})

	t.Run("GetService", func(t *testing.T) {
		svc, err := s.GetService(ctx, "svc1")
		require.NoError(t, err)
		assert.Equal(t, "svc1", svc.ID)
		assert.Equal(t, "Haircut", svc.Title)
		assert.Equal(t, "beauty", svc.Category)
		assert.Equal(t, 50.0, svc.Price)

		_, err = s.GetService(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	var firstID, secondID string

	t.Run("CreateReservation", func(t *testing.T) {
		var seen []*models.Reservation
		id, err := s.CreateReservation(ctx, reservationAt("u1", "svc1", "p1", "2024-06-01", "10:00", "11:00", base), func(existing []*models.Reservation) error {
			seen = existing
			return nil
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Empty(t, seen)
		firstID = id

		id, err = s.CreateReservation(ctx, reservationAt("u1", "svc1", "p2", "2024-06-01", "11:00", "12:00", base.Add(time.Minute)), func(existing []*models.Reservation) error {
			seen = existing
			return nil
		})
		require.NoError(t, err)
		secondID = id
		require.Len(t, seen, 1)
		assert.Equal(t, firstID, seen[0].ID)
		assert.Equal(t, "10:00", seen[0].StartTime)
	})

	t.Run("CreateReservation aborted by check", func(t *testing.T) {
		_, err := s.CreateReservation(ctx, reservationAt("u2", "svc1", "p1", "2024-06-01", "10:30", "11:30", base.Add(2*time.Minute)), func(existing []*models.Reservation) error {
			return errSlotTaken
		})
		var te *types.Error
		require.True(t, errors.As(err, &te))
		assert.Equal(t, types.ERR_CONFLICT, te.Kind)

		list, err := s.ListReservations(ctx, ReservationQuery{ClientID: "u2"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("ListReservations", func(t *testing.T) {
		list, err := s.ListReservations(ctx, ReservationQuery{ClientID: "u1"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, secondID, list[0].ID)
		assert.Equal(t, firstID, list[1].ID)
		assert.Equal(t, "u1", list[1].ClientID)
		assert.Equal(t, types.RESERVATION_PENDING, list[1].Status)
		assert.Equal(t, 50.0, list[1].TotalPrice)

		list, err = s.ListReservations(ctx, ReservationQuery{ClientID: "u1", ProviderID: "p2"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, secondID, list[0].ID)

		list, err = s.ListReservations(ctx, ReservationQuery{ClientID: "nobody"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("other slots are independent", func(t *testing.T) {
		var seen []*models.Reservation
		_, err := s.CreateReservation(ctx, reservationAt("u1", "svc1", "p1", "2024-06-02", "10:00", "11:00", base.Add(3*time.Minute)), func(existing []*models.Reservation) error {
			seen = existing
			return nil
		})
		require.NoError(t, err)
		assert.Empty(t, seen)
	})
}

// runConcurrentCreates starts n creates for one slot whose check rejects any
// existing reservation. Exactly one must win.
func runConcurrentCreates(t *testing.T, s Store, n int) {
	ctx := context.Background()
	var wg sync.WaitGroup
	var ok, rejected int32
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			r := reservationAt("racer", "svc-race", "p1", "2024-07-01", "09:00", "10:00", time.Now())
			_, err := s.CreateReservation(ctx, r, func(existing []*models.Reservation) error {
				if len(existing) > 0 {
					return errSlotTaken
				}
				return nil
			})
			if err == nil {
				atomic.AddInt32(&ok, 1)
				return
			}
			if types.KindOf(err) == types.ERR_CONFLICT {
				atomic.AddInt32(&rejected, 1)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(n-1), rejected)
	list, err := s.ListReservations(ctx, ReservationQuery{ServiceID: "svc-race", Date: "2024-07-01"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
