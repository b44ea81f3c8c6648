package sched

import (
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Service is the scheduling core: resource registry, time-slot allocator,
// appointment state machine, workflow conversion and progress tracking. All
// mutations run inside database transactions, and every mutation touching a
// resource's reservations is additionally serialized through that resource's
// lock so concurrent schedule calls on the same bay or technician cannot both
// pass the overlap check.
type Service struct {
	db  *gorm.DB
	now func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService creates the scheduling service on top of an initialized database.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		locks: make(map[int64]*sync.Mutex),
	}
}

// DB exposes the underlying handle for read-only display consumers and the
// subscription handlers. Mutations must go through the Service operations.
func (s *Service) DB() *gorm.DB {
	return s.db
}

func (s *Service) resourceLock(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// lockResources acquires the locks for the given resource ids in ascending id
// order, so two operations locking overlapping sets cannot deadlock. The
// returned func releases them.
func (s *Service) lockResources(ids ...int64) func() {
	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		l := s.resourceLock(id)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
