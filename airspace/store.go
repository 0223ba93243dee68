package airspace

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/atc-sim/atc-sim/logging"
)

// RetirementRecord is written to the Store's retirement ledger whenever
// the Radar untracks an aircraft. A containment check against every
// published snapshot uses this ledger: an aircraft outside the box
// must have retired at the same tick or earlier.
type RetirementRecord struct {
	ID     int32
	Tick   int64
	Reason string
	At     time.Time
}

// Store is the Airspace Store: the single source of truth for the
// fleet snapshot and the command ring. The snapshot lock is
// single-producer (Radar only) for writes and multi-reader; the
// command ring lock is single-producer (Analyzer) for enqueue and
// single-consumer (Relay) for dequeue — one lock for the fleet-snapshot
// slot, one lock for the command ring, each independent of the other.
type Store struct {
	snapLock *warnMutex
	snapshot FleetSnapshot

	ringLock commandRingMutex

	retirements *lru.Cache[int32, RetirementRecord]

	lg *logging.Logger
}

// commandRingMutex is just a plain mutex; it is given its own named
// type so the zero value is obviously usable and so Store's field list
// reads the two locks as distinct concerns.
type commandRingMutex struct {
	ring commandRing
	mu   sync.Mutex
}

func NewStore(lg *logging.Logger) *Store {
	ledger, _ := lru.New[int32, RetirementRecord](MaxFleet)
	return &Store{
		snapLock:    newWarnMutex(lg, 200*time.Millisecond),
		retirements: ledger,
		lg:          lg,
	}
}

// ReadFleet returns a point-in-time, internally consistent copy of the
// fleet snapshot. FleetSnapshot is entirely fixed arrays of plain
// structs — no pointers, slices, or maps — so the assignment under the
// lock already produces a fully independent value; a caller mutating
// the returned copy can never perturb the Store's internal state or
// another reader's snapshot.
func (s *Store) ReadFleet() FleetSnapshot {
	s.snapLock.lockLogged("ReadFleet")
	snap := s.snapshot
	s.snapLock.Unlock()
	return snap
}

// WriteFleet atomically replaces the snapshot. Called only by the
// Radar, its single producer.
func (s *Store) WriteFleet(snap FleetSnapshot) {
	s.snapLock.lockLogged("WriteFleet")
	s.snapshot = snap
	s.snapLock.Unlock()
}

// EnqueueCommand pushes to the command ring, returning ErrQueueFull
// without blocking if it is already full.
func (s *Store) EnqueueCommand(c Command) error {
	s.ringLock.mu.Lock()
	defer s.ringLock.mu.Unlock()
	if !s.ringLock.ring.enqueue(c) {
		return ErrQueueFull
	}
	return nil
}

// DequeueCommand pops the oldest pending command, if any.
func (s *Store) DequeueCommand() (Command, bool) {
	s.ringLock.mu.Lock()
	defer s.ringLock.mu.Unlock()
	return s.ringLock.ring.dequeue()
}

// QueueDepth reports the number of pending commands, for diagnostics
// and tests; it takes the ring lock like any other operation.
func (s *Store) QueueDepth() int {
	s.ringLock.mu.Lock()
	defer s.ringLock.mu.Unlock()
	r := s.ringLock.ring
	if r.head <= r.tail {
		return r.tail - r.head
	}
	return MaxCommands - r.head + r.tail
}

// RecordRetirement appends to the bounded retirement ledger.
func (s *Store) RecordRetirement(id int32, tick int64, reason string) {
	s.retirements.Add(id, RetirementRecord{ID: id, Tick: tick, Reason: reason, At: time.Now()})
}

// RetiredAtOrBefore reports whether id was retired at or before tick —
// exactly the check the Containment property needs.
func (s *Store) RetiredAtOrBefore(id int32, tick int64) bool {
	rec, ok := s.retirements.Get(id)
	return ok && rec.Tick <= tick
}
