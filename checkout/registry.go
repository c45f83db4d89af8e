package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/alex-pricope/campaign-voting/payment"
	"github.com/alex-pricope/campaign-voting/storage"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("checkout session not found or already closed")

type session struct {
	mu             sync.Mutex
	id             string
	idempotencyKey string
	state          allocation.State
	touched        time.Time
	closed         bool
}

// Snapshot is a copy of a session at one point in time.
type Snapshot struct {
	ID    string
	State allocation.State
}

// Registry keeps one allocation state per open checkout. Sessions are never
// persisted; they vanish on confirm, close, expiry or restart.
type Registry struct {
	coupons    storage.CouponStorage
	candidates storage.CandidateStorage
	confirmer  payment.Confirmer
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry(coupons storage.CouponStorage, candidates storage.CandidateStorage, confirmer payment.Confirmer, ttl time.Duration) *Registry {
	return &Registry{
		coupons:    coupons,
		candidates: candidates,
		confirmer:  confirmer,
		ttl:        ttl,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
}

// Open loads the coupon and the candidate collection and starts a fresh
// allocation for them.
func (r *Registry) Open(ctx context.Context, couponID string) (*Snapshot, error) {
	c, err := r.coupons.Get(ctx, couponID)
	if err != nil {
		return nil, errors.Wrapf(err, "load coupon %s", couponID)
	}

	stored, err := r.candidates.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load candidates")
	}

	state, err := allocation.New(ToCoupon(c), ToCandidates(stored))
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, errors.Wrap(err, "generate session id")
	}

	r.mu.Lock()
	r.sweepLocked()
	r.sessions[id] = &session{id: id, idempotencyKey: uuid.NewString(), state: state, touched: r.now()}
	r.mu.Unlock()

	logging.Log.Infof("CHECKOUT: opened session %s for coupon %s with %d candidates", id, couponID, len(stored))
	return &Snapshot{ID: id, State: state}, nil
}

func (r *Registry) View(id string) (*Snapshot, error) {
	s, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotFound
	}
	s.touched = r.now()
	return &Snapshot{ID: s.id, State: s.state}, nil
}

// Dispatch applies one action to the session. Actions for the same session
// are applied one at a time.
func (r *Registry) Dispatch(id string, action allocation.Action) (*Snapshot, allocation.Outcome, error) {
	s, err := r.lookup(id)
	if err != nil {
		return nil, allocation.Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, allocation.Outcome{}, ErrSessionNotFound
	}

	next, outcome, err := s.state.Dispatch(action)
	if err != nil {
		return nil, allocation.Outcome{}, err
	}
	s.state = next
	s.touched = r.now()

	if !outcome.Applied {
		logging.Log.Debugf("CHECKOUT: session %s ignored %s on %q: %s", id, action.Type, action.CandidateID, outcome.Reason)
	}
	return &Snapshot{ID: s.id, State: s.state}, outcome, nil
}

// Confirm forwards the allocation to the payment collaborator and closes the
// session. The session stays open when the allocation is incomplete or the
// collaborator fails; every attempt for one session carries the same
// idempotency key.
func (r *Registry) Confirm(ctx context.Context, id string) (*payment.Receipt, error) {
	s, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotFound
	}

	s.touched = r.now()
	req, err := s.state.ConfirmRequest()
	if err != nil {
		return nil, err
	}
	req.IdempotencyKey = s.idempotencyKey

	receipt, err := r.confirmer.Confirm(ctx, req)
	if err != nil {
		logging.Log.Errorf("CHECKOUT: confirmation for session %s failed: %v", id, err)
		s.touched = r.now()
		return nil, err
	}

	s.closed = true
	r.remove(id)
	logging.Log.Infof("CHECKOUT: session %s confirmed", id)
	return receipt, nil
}

// Close discards the session without confirming.
func (r *Registry) Close(id string) error {
	s, err := r.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	s.closed = true
	s.mu.Unlock()

	r.remove(id)
	logging.Log.Infof("CHECKOUT: session %s closed", id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) lookup(id string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// sweepLocked drops sessions idle for longer than the TTL. A zero TTL keeps
// sessions forever.
func (r *Registry) sweepLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.mu.TryLock() {
			if s.touched.Before(cutoff) {
				s.closed = true
				delete(r.sessions, id)
				logging.Log.Infof("CHECKOUT: session %s expired", id)
			}
			s.mu.Unlock()
		}
	}
}
