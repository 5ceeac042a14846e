package bookings

import (
	"context"

	"ticketry/internal/events"
	"ticketry/internal/shared/database"
	"ticketry/internal/waitlist"
	"ticketry/pkg/apperrors"
	"ticketry/pkg/logger"
)

// TicketLedger is the slice of the events repository the engine needs:
// the locking read that opens the per-event critical section and the two
// counter moves. Never called outside an engine-held transaction.
type TicketLedger interface {
	FindForUpdate(tx database.Tx, eventID uint) (*events.Event, error)
	DecrementIfPositive(tx database.Tx, eventID uint) (bool, error)
	Increment(tx database.Tx, eventID uint) error
}

// WaitingQueue is the slice of the waitlist repository the engine needs.
type WaitingQueue interface {
	Add(tx database.Tx, eventID, userID uint) (*waitlist.Entry, error)
	PeekHeadForUpdate(tx database.Tx, eventID uint) (*waitlist.Entry, error)
	Promote(tx database.Tx, entryID uint) error
	FindByUser(tx database.Tx, eventID, userID uint) (*waitlist.Entry, error)
}

// EventPublisher receives booking lifecycle records after commit. Optional;
// publishing is best-effort and never affects the transaction outcome.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event *LifecycleEvent)
}

// Service is the booking transaction engine: the sole writer of ticket
// counters, bookings and waiting entries. Every operation runs inside one
// transaction whose row locks serialize all book/cancel calls per event, so
// their visible effects are equivalent to a serial execution in lock
// acquisition order.
type Service interface {
	Book(ctx context.Context, eventID, userID uint) (*BookResult, error)
	Cancel(ctx context.Context, bookingID uint) (*CancelResult, error)
}

type service struct {
	txManager database.TxManager
	repo      Repository
	ledger    TicketLedger
	queue     WaitingQueue
	publisher EventPublisher
}

func NewService(txManager database.TxManager, repo Repository, ledger TicketLedger, queue WaitingQueue) Service {
	return &service{
		txManager: txManager,
		repo:      repo,
		ledger:    ledger,
		queue:     queue,
	}
}

// NewServiceWithPublisher wires an optional post-commit event publisher.
func NewServiceWithPublisher(txManager database.TxManager, repo Repository, ledger TicketLedger, queue WaitingQueue, publisher EventPublisher) Service {
	return &service{
		txManager: txManager,
		repo:      repo,
		ledger:    ledger,
		queue:     queue,
		publisher: publisher,
	}
}

// Book grants the user a ticket for the event, or queues the user when the
// pool is exhausted. Exactly one of the two happens, atomically.
func (s *service) Book(ctx context.Context, eventID, userID uint) (*BookResult, error) {
	if eventID == 0 {
		return nil, apperrors.Validation("valid event ID is required")
	}
	if userID == 0 {
		return nil, apperrors.Validation("valid user ID is required")
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, apperrors.Persistence("failed to begin transaction", err)
	}
	defer tx.Rollback()

	// Locking the event row serializes every book/cancel on this event
	event, err := s.ledger.FindForUpdate(tx, eventID)
	if err != nil {
		return nil, apperrors.Persistence("failed to lock event", err)
	}
	if event == nil {
		return nil, apperrors.NotFound("event not found")
	}

	existingBooking, err := s.repo.FindActiveConfirmed(tx, eventID, userID)
	if err != nil {
		return nil, apperrors.Persistence("failed to check existing booking", err)
	}
	if existingBooking != nil {
		return nil, apperrors.Conflict("user already has a booking for this event")
	}

	existingEntry, err := s.queue.FindByUser(tx, eventID, userID)
	if err != nil {
		return nil, apperrors.Persistence("failed to check waiting list", err)
	}
	if existingEntry != nil {
		return nil, apperrors.Conflict("user is already on the waiting list for this event")
	}

	if event.AvailableTickets > 0 {
		booking, err := s.repo.Create(tx, eventID, userID)
		if err != nil {
			return nil, apperrors.Persistence("failed to create booking", err)
		}

		decremented, err := s.ledger.DecrementIfPositive(tx, eventID)
		if err != nil {
			return nil, apperrors.Persistence("failed to decrement available tickets", err)
		}
		if !decremented {
			// Unreachable while the event lock is held; treat as storage fault
			return nil, apperrors.Persistence("available ticket counter out of sync", nil)
		}

		if err := tx.Commit(); err != nil {
			return nil, apperrors.Persistence("failed to commit booking", err)
		}

		logger.GetDefault().LogBookingConfirmed(ctx, booking.ID, eventID, userID)
		s.publish(ctx, NewConfirmedEvent(booking))

		return &BookResult{
			BookingID: booking.ID,
			EventID:   eventID,
			UserID:    userID,
			Status:    string(StatusConfirmed),
		}, nil
	}

	entry, err := s.queue.Add(tx, eventID, userID)
	if err != nil {
		return nil, apperrors.Persistence("failed to add to waiting list", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Persistence("failed to commit waiting list entry", err)
	}

	logger.GetDefault().LogUserWaitlisted(ctx, entry.ID, eventID, userID, entry.Position)
	s.publish(ctx, NewWaitlistedEvent(entry))

	return &BookResult{
		WaitingListID: entry.ID,
		EventID:       eventID,
		UserID:        userID,
		Position:      entry.Position,
		Status:        "waitlisted",
		Message:       "Event is sold out. You have been added to the waiting list.",
	}, nil
}

// Cancel marks the booking cancelled and hands its ticket to the
// longest-waiting user, or returns it to the pool when nobody is waiting.
func (s *service) Cancel(ctx context.Context, bookingID uint) (*CancelResult, error) {
	if bookingID == 0 {
		return nil, apperrors.Validation("valid booking ID is required")
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, apperrors.Persistence("failed to begin transaction", err)
	}
	defer tx.Rollback()

	booking, err := s.repo.FindForUpdate(tx, bookingID)
	if err != nil {
		return nil, apperrors.Persistence("failed to lock booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking not found")
	}
	if booking.IsCancelled() {
		return nil, apperrors.Conflict("booking is already cancelled")
	}

	// Take the event lock as well, so cancellation is totally ordered with
	// every book call on the same event before we inspect the queue.
	event, err := s.ledger.FindForUpdate(tx, booking.EventID)
	if err != nil {
		return nil, apperrors.Persistence("failed to lock event", err)
	}
	if event == nil {
		return nil, apperrors.Persistence("event missing for booking", nil)
	}

	if err := s.repo.Cancel(tx, bookingID); err != nil {
		return nil, apperrors.Persistence("failed to cancel booking", err)
	}

	head, err := s.queue.PeekHeadForUpdate(tx, booking.EventID)
	if err != nil {
		return nil, apperrors.Persistence("failed to read waiting list", err)
	}

	var reassigned *ReassignedBooking
	var newBooking *Booking

	if head != nil {
		// The freed ticket transfers directly; the pool counter stays put
		newBooking, err = s.repo.Create(tx, booking.EventID, head.UserID)
		if err != nil {
			return nil, apperrors.Persistence("failed to create reassigned booking", err)
		}

		if err := s.queue.Promote(tx, head.ID); err != nil {
			return nil, apperrors.Persistence("failed to promote waiting entry", err)
		}

		reassigned = &ReassignedBooking{
			UserID:    head.UserID,
			BookingID: newBooking.ID,
		}
	} else {
		if err := s.ledger.Increment(tx, booking.EventID); err != nil {
			return nil, apperrors.Persistence("failed to increment available tickets", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Persistence("failed to commit cancellation", err)
	}

	logger.GetDefault().LogBookingCancelled(ctx, bookingID, booking.EventID, reassigned != nil)
	s.publish(ctx, NewCancelledEvent(booking))

	if reassigned != nil {
		logger.GetDefault().LogTicketReassigned(ctx, bookingID, newBooking.ID, booking.EventID, head.UserID)
		s.publish(ctx, NewPromotedEvent(newBooking, head))
	}

	return &CancelResult{
		Message:      "Booking cancelled successfully",
		Reassigned:   reassigned != nil,
		ReassignedTo: reassigned,
	}, nil
}

func (s *service) publish(ctx context.Context, event *LifecycleEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishBookingEvent(ctx, event)
}
