package bookings_test

import (
	"context"
	"sync"
	"time"

	"ticketry/internal/bookings"
	"ticketry/internal/events"
	"ticketry/internal/shared/database"
	"ticketry/internal/waitlist"
)

// memStore is an in-memory stand-in for Postgres. A per-event mutex plays
// the role of the event row lock: a transaction takes it on its first
// locking read and holds it until Commit or Rollback, which reproduces the
// serialization the engine relies on without a database.
type memStore struct {
	mu         sync.Mutex
	eventLocks map[uint]*sync.Mutex

	events        map[uint]*events.Event
	bookings      map[uint]*bookings.Booking
	entries       map[uint]*waitlist.Entry
	nextBookingID uint
	nextEntryID   uint
}

func newMemStore() *memStore {
	return &memStore{
		eventLocks:    make(map[uint]*sync.Mutex),
		events:        make(map[uint]*events.Event),
		bookings:      make(map[uint]*bookings.Booking),
		entries:       make(map[uint]*waitlist.Entry),
		nextBookingID: 1,
		nextEntryID:   1,
	}
}

func (s *memStore) addEvent(name string, totalTickets int) uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uint(len(s.events) + 1)
	s.events[id] = &events.Event{
		ID:               id,
		Name:             name,
		TotalTickets:     totalTickets,
		AvailableTickets: totalTickets,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	return id
}

func (s *memStore) eventLock(eventID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.eventLocks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		s.eventLocks[eventID] = lock
	}
	return lock
}

func (s *memStore) eventSnapshot(eventID uint) events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.events[eventID]
}

func (s *memStore) bookingSnapshot(bookingID uint) bookings.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookings[bookingID]
}

func (s *memStore) confirmedCount(eventID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, b := range s.bookings {
		if b.EventID == eventID && b.IsConfirmed() {
			count++
		}
	}
	return count
}

func (s *memStore) waitingPositions(eventID uint) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var positions []int
	for _, e := range s.entries {
		if e.EventID == eventID && e.IsWaiting() {
			positions = append(positions, e.Position)
		}
	}
	return positions
}

// memTx mimics the row-lock lifetime of a database transaction: locks are
// acquired lazily per event and released on completion, and every mutation
// logs an undo so Rollback restores the prior state.
type memTx struct {
	store *memStore
	held  map[uint]*sync.Mutex
	undo  []func()
	done  bool
}

func (tx *memTx) lockEvent(eventID uint) {
	if _, ok := tx.held[eventID]; ok {
		return
	}
	lock := tx.store.eventLock(eventID)
	lock.Lock()
	tx.held[eventID] = lock
}

func (tx *memTx) release() {
	for _, lock := range tx.held {
		lock.Unlock()
	}
	tx.held = make(map[uint]*sync.Mutex)
}

func (tx *memTx) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.undo = nil
	tx.release()
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true

	tx.store.mu.Lock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.store.mu.Unlock()
	tx.undo = nil

	tx.release()
	return nil
}

type memTxManager struct {
	store *memStore
}

func (m *memTxManager) Begin(ctx context.Context) (database.Tx, error) {
	return &memTx{
		store: m.store,
		held:  make(map[uint]*sync.Mutex),
	}, nil
}

// memLedger implements the engine's TicketLedger over memStore.
type memLedger struct {
	store *memStore
}

func (l *memLedger) FindForUpdate(tx database.Tx, eventID uint) (*events.Event, error) {
	mtx := tx.(*memTx)
	mtx.lockEvent(eventID)

	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	event, ok := l.store.events[eventID]
	if !ok {
		return nil, nil
	}
	snapshot := *event
	return &snapshot, nil
}

func (l *memLedger) DecrementIfPositive(tx database.Tx, eventID uint) (bool, error) {
	mtx := tx.(*memTx)

	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	event, ok := l.store.events[eventID]
	if !ok || event.AvailableTickets <= 0 {
		return false, nil
	}
	event.AvailableTickets--
	mtx.undo = append(mtx.undo, func() { event.AvailableTickets++ })
	return true, nil
}

func (l *memLedger) Increment(tx database.Tx, eventID uint) error {
	mtx := tx.(*memTx)

	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	event := l.store.events[eventID]
	event.AvailableTickets++
	mtx.undo = append(mtx.undo, func() { event.AvailableTickets-- })
	return nil
}

// memBookings implements bookings.Repository over memStore.
type memBookings struct {
	store *memStore
}

func (r *memBookings) Create(tx database.Tx, eventID, userID uint) (*bookings.Booking, error) {
	mtx := tx.(*memTx)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := r.store.nextBookingID
	r.store.nextBookingID++

	booking := &bookings.Booking{
		ID:        id,
		EventID:   eventID,
		UserID:    userID,
		Status:    bookings.StatusConfirmed,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.store.bookings[id] = booking
	mtx.undo = append(mtx.undo, func() { delete(r.store.bookings, id) })

	snapshot := *booking
	return &snapshot, nil
}

func (r *memBookings) FindActiveConfirmed(tx database.Tx, eventID, userID uint) (*bookings.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, b := range r.store.bookings {
		if b.EventID == eventID && b.UserID == userID && b.IsConfirmed() {
			snapshot := *b
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (r *memBookings) FindForUpdate(tx database.Tx, bookingID uint) (*bookings.Booking, error) {
	mtx := tx.(*memTx)

	r.store.mu.Lock()
	booking, ok := r.store.bookings[bookingID]
	if !ok {
		r.store.mu.Unlock()
		return nil, nil
	}
	eventID := booking.EventID
	r.store.mu.Unlock()

	mtx.lockEvent(eventID)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snapshot := *r.store.bookings[bookingID]
	return &snapshot, nil
}

func (r *memBookings) Cancel(tx database.Tx, bookingID uint) error {
	mtx := tx.(*memTx)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking := r.store.bookings[bookingID]
	if !booking.IsConfirmed() {
		return nil
	}

	prevStatus := booking.Status
	prevCancelledAt := booking.CancelledAt
	now := time.Now()
	booking.Status = bookings.StatusCancelled
	booking.CancelledAt = &now

	mtx.undo = append(mtx.undo, func() {
		booking.Status = prevStatus
		booking.CancelledAt = prevCancelledAt
	})
	return nil
}

func (r *memBookings) CountConfirmed(ctx context.Context, eventID uint) (int64, error) {
	return int64(r.store.confirmedCount(eventID)), nil
}

// memQueue implements the engine's WaitingQueue over memStore.
type memQueue struct {
	store *memStore
}

func (q *memQueue) Add(tx database.Tx, eventID, userID uint) (*waitlist.Entry, error) {
	mtx := tx.(*memTx)

	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	maxPosition := 0
	for _, e := range q.store.entries {
		if e.EventID == eventID && e.IsWaiting() && e.Position > maxPosition {
			maxPosition = e.Position
		}
	}

	id := q.store.nextEntryID
	q.store.nextEntryID++

	entry := &waitlist.Entry{
		ID:        id,
		EventID:   eventID,
		UserID:    userID,
		Position:  maxPosition + 1,
		Status:    waitlist.StatusWaiting,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	q.store.entries[id] = entry
	mtx.undo = append(mtx.undo, func() { delete(q.store.entries, id) })

	snapshot := *entry
	return &snapshot, nil
}

func (q *memQueue) PeekHeadForUpdate(tx database.Tx, eventID uint) (*waitlist.Entry, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	var head *waitlist.Entry
	for _, e := range q.store.entries {
		if e.EventID == eventID && e.IsWaiting() {
			if head == nil || e.Position < head.Position {
				head = e
			}
		}
	}
	if head == nil {
		return nil, nil
	}
	snapshot := *head
	return &snapshot, nil
}

func (q *memQueue) Promote(tx database.Tx, entryID uint) error {
	mtx := tx.(*memTx)

	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	entry := q.store.entries[entryID]
	if !entry.IsWaiting() {
		return nil
	}

	prevStatus := entry.Status
	prevPromotedAt := entry.PromotedAt
	now := time.Now()
	entry.Status = waitlist.StatusPromoted
	entry.PromotedAt = &now

	mtx.undo = append(mtx.undo, func() {
		entry.Status = prevStatus
		entry.PromotedAt = prevPromotedAt
	})
	return nil
}

func (q *memQueue) FindByUser(tx database.Tx, eventID, userID uint) (*waitlist.Entry, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	for _, e := range q.store.entries {
		if e.EventID == eventID && e.UserID == userID && e.IsWaiting() {
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (q *memQueue) CountWaiting(ctx context.Context, eventID uint) (int64, error) {
	return int64(len(q.store.waitingPositions(eventID))), nil
}

// recordingPublisher captures lifecycle events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*bookings.LifecycleEvent
}

func (p *recordingPublisher) PublishBookingEvent(ctx context.Context, event *bookings.LifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) recorded() []*bookings.LifecycleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*bookings.LifecycleEvent, len(p.events))
	copy(out, p.events)
	return out
}

func newTestEngine(store *memStore) bookings.Service {
	return bookings.NewService(
		&memTxManager{store: store},
		&memBookings{store: store},
		&memLedger{store: store},
		&memQueue{store: store},
	)
}

func newTestEngineWithPublisher(store *memStore, publisher bookings.EventPublisher) bookings.Service {
	return bookings.NewServiceWithPublisher(
		&memTxManager{store: store},
		&memBookings{store: store},
		&memLedger{store: store},
		&memQueue{store: store},
		publisher,
	)
}
