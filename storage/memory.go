package storage

import (
	"context"
	"sync"
)

// MemoryCandidateStorage keeps candidates in process memory. Used for local
// runs and tests.
type MemoryCandidateStorage struct {
	mu    sync.RWMutex
	items map[string]Candidate
}

func NewMemoryCandidateStorage() *MemoryCandidateStorage {
	return &MemoryCandidateStorage{items: make(map[string]Candidate)}
}

func (s *MemoryCandidateStorage) Get(_ context.Context, id string) (*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryCandidateStorage) GetAll(_ context.Context) ([]*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]*Candidate, 0, len(s.items))
	for _, c := range s.items {
		c := c
		candidates = append(candidates, &c)
	}
	sortCandidates(candidates)
	return candidates, nil
}

func (s *MemoryCandidateStorage) Create(_ context.Context, candidate *Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[candidate.ID]; ok {
		return ErrItemWithIDAlreadyExists
	}
	s.items[candidate.ID] = *candidate
	return nil
}

func (s *MemoryCandidateStorage) Update(_ context.Context, candidate *Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[candidate.ID]; !ok {
		return ErrNotFound
	}
	s.items[candidate.ID] = *candidate
	return nil
}

func (s *MemoryCandidateStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type MemoryCouponStorage struct {
	mu    sync.RWMutex
	items map[string]Coupon
}

func NewMemoryCouponStorage() *MemoryCouponStorage {
	return &MemoryCouponStorage{items: make(map[string]Coupon)}
}

func (s *MemoryCouponStorage) Get(_ context.Context, id string) (*Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryCouponStorage) GetAll(_ context.Context) ([]*Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coupons := make([]*Coupon, 0, len(s.items))
	for _, c := range s.items {
		c := c
		coupons = append(coupons, &c)
	}
	sortCoupons(coupons)
	return coupons, nil
}

func (s *MemoryCouponStorage) Create(_ context.Context, coupon *Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[coupon.ID]; ok {
		return ErrItemWithIDAlreadyExists
	}
	s.items[coupon.ID] = *coupon
	return nil
}

func (s *MemoryCouponStorage) Update(_ context.Context, coupon *Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[coupon.ID]; !ok {
		return ErrNotFound
	}
	s.items[coupon.ID] = *coupon
	return nil
}

func (s *MemoryCouponStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}
