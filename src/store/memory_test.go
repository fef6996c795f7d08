package store

import (
	"bookings/src/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	runStoreContract(t, m, func(t *testing.T, svc models.Service) {
		m.PutService(svc)
	})
}

func TestMemoryStoreConcurrentCreates(t *testing.T) {
	runConcurrentCreates(t, NewMemoryStore(), 16)
}

func TestMemoryStoreTiesKeepInsertOrder(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	first, err := m.CreateReservation(ctx, reservationAt("u1", "a", "p", "2024-06-01", "10:00", "11:00", at), nil)
	require.NoError(t, err)
	second, err := m.CreateReservation(ctx, reservationAt("u1", "b", "p", "2024-06-01", "10:00", "11:00", at), nil)
	require.NoError(t, err)

	list, err := m.ListReservations(ctx, ReservationQuery{ClientID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
	assert.Equal(t, 2, m.Count())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	_, err := m.CreateReservation(ctx, reservationAt("u1", "a", "p", "2024-06-01", "10:00", "11:00", time.Now()), nil)
	require.NoError(t, err)

	list, err := m.ListReservations(ctx, ReservationQuery{ClientID: "u1"})
	require.NoError(t, err)
	list[0].ClientID = "mallory"

	list, err = m.ListReservations(ctx, ReservationQuery{ClientID: "u1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	m := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ListReservations(ctx, ReservationQuery{ClientID: "u1"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.GetService(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.CreateReservation(ctx, &models.Reservation{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Count())
}
