package store

import (
	"bookings/src/models"
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreStore struct {
	client       *firestore.Client
	reservations *firestore.CollectionRef
	services     *firestore.CollectionRef
	slotLocks    *firestore.CollectionRef
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{
		client:       client,
		reservations: client.Collection(RESERVATIONS_COLLECTION),
		services:     client.Collection(SERVICES_COLLECTION),
		slotLocks:    client.Collection(SLOT_LOCKS_COLLECTION),
	}
}

func (s *FirestoreStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	snap, err := s.services.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var svc models.Service
	if err := snap.DataTo(&svc); err != nil {
		return nil, fmt.Errorf("decode service %s: %w", id, err)
	}
	svc.ID = snap.Ref.ID
	return &svc, nil
}

func (s *FirestoreStore) ListReservations(ctx context.Context, q ReservationQuery) ([]*models.Reservation, error) {
	docs, err := s.query(q).OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeReservations(docs)
}

// CreateReservation reads and rewrites the slot's lock document in the same
// transaction as the overlap query, so two creates for one slot cannot both
// commit; the loser is retried by the client library and sees the winner.
func (s *FirestoreStore) CreateReservation(ctx context.Context, r *models.Reservation, check CheckFunc) (string, error) {
	ref := s.reservations.NewDoc()
	lockRef := s.slotLocks.Doc(r.SlotKey())
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var lock models.SlotLock
		lsnap, err := tx.Get(lockRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if lsnap != nil && lsnap.Exists() {
			if err := lsnap.DataTo(&lock); err != nil {
				return fmt.Errorf("decode slot lock %s: %w", lockRef.ID, err)
			}
		}
		docs, err := tx.Documents(s.query(ReservationQuery{ServiceID: r.ServiceID, Date: r.Date})).GetAll()
		if err != nil {
			return err
		}
		existing, err := decodeReservations(docs)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		now := time.Now()
		if lock.CreatedAt.IsZero() {
			lock.CreatedAt = now
		}
		lock.Version++
		lock.UpdatedAt = now
		if err := tx.Set(lockRef, lock); err != nil {
			return err
		}
		return tx.Create(ref, r)
	})
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) query(q ReservationQuery) firestore.Query {
	fq := s.reservations.Query
	if q.ClientID != "" {
		fq = fq.Where("clientId", "==", q.ClientID)
	}
	if q.ProviderID != "" {
		fq = fq.Where("providerId", "==", q.ProviderID)
	}
	if q.ServiceID != "" {
		fq = fq.Where("serviceId", "==", q.ServiceID)
	}
	if q.Date != "" {
		fq = fq.Where("date", "==", q.Date)
	}
	return fq
}

func decodeReservations(docs []*firestore.DocumentSnapshot) ([]*models.Reservation, error) {
	out := make([]*models.Reservation, 0, len(docs))
	for _, doc := range docs {
		var r models.Reservation
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("decode reservation %s: %w", doc.Ref.ID, err)
		}
		r.ID = doc.Ref.ID
		out = append(out, &r)
	}
	return out, nil
}
