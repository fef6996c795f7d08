package services

import (
	"bookings/src/config"
	"bookings/src/lib"
	"bookings/src/models"
	"bookings/src/store"
	"bookings/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const notifyTimeout = 10 * time.Second

type ReservationService struct {
	store    store.Store
	cache    lib.ServiceCache
	notifier lib.Notifier
	timeout  time.Duration
	workers  int
	now      func() time.Time
}

// NewReservationService accepts nil cache and notifier.
func NewReservationService(s store.Store, cache lib.ServiceCache, notifier lib.Notifier, cfg config.Config) *ReservationService {
	if cache == nil {
		cache = lib.NoopServiceCache{}
	}
	if notifier == nil {
		notifier = lib.NoopNotifier{}
	}
	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = config.DEFAULT_STORE_TIMEOUT
	}
	workers := cfg.EnrichWorkers
	if workers <= 0 {
		workers = config.DEFAULT_ENRICH_WORKERS
	}
	return &ReservationService{
		store:    s,
		cache:    cache,
		notifier: notifier,
		timeout:  timeout,
		workers:  workers,
		now:      time.Now,
	}
}

// List returns the user's reservations, newest first, each with a snapshot
// of its service. A service that cannot be loaded leaves Service nil on that
// record only.
func (s *ReservationService) List(ctx context.Context, userID, providerID string) ([]models.ReservationWithService, error) {
	if userID == "" {
		return nil, types.NewError(types.ERR_AUTH, "missing user identity", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rs, err := s.store.ListReservations(ctx, store.ReservationQuery{
		ClientID:   userID,
		ProviderID: strings.TrimSpace(providerID),
	})
	if err != nil {
		return nil, s.storeError(ctx, err)
	}

	out := make([]models.ReservationWithService, len(rs))
	var ids []string
	index := map[string]int{}
	for i, r := range rs {
		out[i] = models.ReservationWithService{Reservation: r}
		if r.ServiceID == "" {
			continue
		}
		if _, ok := index[r.ServiceID]; !ok {
			index[r.ServiceID] = len(ids)
			ids = append(ids, r.ServiceID)
		}
	}

	snaps := make([]*models.ServiceSnapshot, len(ids))
	// the group only bounds concurrency; serviceSnapshot never fails
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, id := range ids {
		g.Go(func() error {
			snaps[i] = s.serviceSnapshot(ctx, id)
			return nil
		})
	}
	g.Wait()

	for i := range out {
		if j, ok := index[out[i].ServiceID]; ok {
			out[i].Service = snaps[j]
		}
	}
	return out, nil
}

// serviceSnapshot never fails; lookup errors are logged and yield nil.
func (s *ReservationService) serviceSnapshot(ctx context.Context, serviceID string) *models.ServiceSnapshot {
	snap, err := s.cache.Get(ctx, serviceID)
	if err != nil {
		log.Printf("[reservations] service cache read %s: %s\n", serviceID, err.Error())
	}
	if snap != nil {
		return snap
	}
	svc, err := s.store.GetService(ctx, serviceID)
	if err != nil {
		log.Printf("[reservations] service lookup %s failed: %s\n", serviceID, err.Error())
		return nil
	}
	snap = svc.Snapshot()
	if err := s.cache.Set(ctx, serviceID, snap); err != nil {
		log.Printf("[reservations] service cache write %s: %s\n", serviceID, err.Error())
	}
	return snap
}

// Create validates the request, checks the service exists and that the slot
// is free, then persists a pending reservation owned by userID.
func (s *ReservationService) Create(ctx context.Context, userID string, req types.CreateReservationRequestBody) (*models.Reservation, error) {
	if userID == "" {
		return nil, types.NewError(types.ERR_AUTH, "missing user identity", nil)
	}
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.store.GetService(ctx, req.ServiceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewError(types.ERR_NOT_FOUND, "service not found", err)
		}
		return nil, s.storeError(ctx, err)
	}

	now := s.now()
	r := &models.Reservation{
		ClientID:   userID,
		ServiceID:  req.ServiceID,
		ProviderID: req.ProviderID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TotalPrice: NormalizePrice(req.TotalPrice),
		Status:     types.RESERVATION_PENDING,
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	id, err := s.store.CreateReservation(ctx, r, func(existing []*models.Reservation) error {
		if c := FindConflict(existing, r.StartTime, r.EndTime); c != nil {
			return types.NewError(types.ERR_CONFLICT,
				"the selected time slot is already booked",
				fmt.Errorf("overlaps reservation %s (%s-%s)", c.ID, c.StartTime, c.EndTime))
		}
		return nil
	})
	if err != nil {
		return nil, s.storeError(ctx, err)
	}
	r.ID = id
	log.Printf("[reservations] created %s for %s on %s %s-%s\n", r.ID, r.ClientID, r.Date, r.StartTime, r.EndTime)

	created := *r
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.ReservationCreated(nctx, &created); err != nil {
			log.Printf("[reservations] notify provider %s: %s\n", created.ProviderID, err.Error())
		}
	}()
	return r, nil
}

// ValidateCreateRequest reports every missing field at once, then format
// problems.
func ValidateCreateRequest(req types.CreateReservationRequestBody) error {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"serviceId", req.ServiceID},
		{"providerId", req.ProviderID},
		{"date", req.Date},
		{"startTime", req.StartTime},
		{"endTime", req.EndTime},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return types.NewError(types.ERR_VALIDATION, "missing required fields: "+strings.Join(missing, ", "), nil)
	}
	if !IsISODate(req.Date) {
		return types.NewError(types.ERR_VALIDATION, "date must be YYYY-MM-DD", nil)
	}
	if !IsTimeOfDay(req.StartTime) || !IsTimeOfDay(req.EndTime) {
		return types.NewError(types.ERR_VALIDATION, "startTime and endTime must be HH:mm", nil)
	}
	if req.StartTime >= req.EndTime {
		return types.NewError(types.ERR_VALIDATION, "endTime must be after startTime", nil)
	}
	return nil
}

func (s *ReservationService) storeError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return types.NewError(types.ERR_TIMEOUT, "database timeout", err)
	}
	return store.Classify(err)
}
