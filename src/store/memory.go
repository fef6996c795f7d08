package store

import (
	"bookings/src/models"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryRecord struct {
	seq int
	r   models.Reservation
}

// MemoryStore keeps everything in process. Creates are serialised by a
// single mutex, which makes the slot check and the insert atomic.
type MemoryStore struct {
	mu           sync.Mutex
	seq          int
	services     map[string]models.Service
	reservations map[string]*memoryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		services:     make(map[string]models.Service),
		reservations: make(map[string]*memoryRecord),
	}
}

// PutService seeds a service, generating an id when s.ID is empty.
func (m *MemoryStore) PutService(s models.Service) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.services[s.ID] = s
	return s.ID
}

func (m *MemoryStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) ListReservations(ctx context.Context, q ReservationQuery) ([]*models.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.match(q), nil
}

func (m *MemoryStore) CreateReservation(ctx context.Context, r *models.Reservation, check CheckFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := m.match(ReservationQuery{ServiceID: r.ServiceID, Date: r.Date})
	if check != nil {
		if err := check(existing); err != nil {
			return "", err
		}
	}
	m.seq++
	rec := &memoryRecord{seq: m.seq, r: *r}
	rec.r.ID = uuid.NewString()
	m.reservations[rec.r.ID] = rec
	return rec.r.ID, nil
}

// Count reports how many reservations are stored.
func (m *MemoryStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

// match must be called with mu held. Later inserts win ties on createdAt.
func (m *MemoryStore) match(q ReservationQuery) []*models.Reservation {
	recs := make([]*memoryRecord, 0)
	for _, rec := range m.reservations {
		r := rec.r
		if q.ClientID != "" && r.ClientID != q.ClientID {
			continue
		}
		if q.ProviderID != "" && r.ProviderID != q.ProviderID {
			continue
		}
		if q.ServiceID != "" && r.ServiceID != q.ServiceID {
			continue
		}
		if q.Date != "" && r.Date != q.Date {
			continue
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.r.CreatedAt.Equal(b.r.CreatedAt) {
			return a.r.CreatedAt.After(b.r.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*models.Reservation, len(recs))
	for i, rec := range recs {
		r := rec.r
		out[i] = &r
	}
	return out
}
