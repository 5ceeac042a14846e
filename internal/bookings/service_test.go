package bookings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketry/internal/bookings"
	"ticketry/pkg/apperrors"
)

func TestBook_ConfirmsWhileTicketsRemain(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Jazz Night", 2)

	result, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result.Status)
	assert.NotZero(t, result.BookingID)
	assert.Zero(t, result.WaitingListID)

	result2, err := engine.Book(ctx, eventID, 2)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result2.Status)
	assert.NotEqual(t, result.BookingID, result2.BookingID)

	event := store.eventSnapshot(eventID)
	assert.Equal(t, 0, event.AvailableTickets)
	assert.Equal(t, 2, store.confirmedCount(eventID))
}

func TestBook_WaitlistsWhenSoldOut(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Secret Gig", 1)

	result, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result.Status)

	waitlisted, err := engine.Book(ctx, eventID, 2)
	require.NoError(t, err)
	assert.Equal(t, "waitlisted", waitlisted.Status)
	assert.Equal(t, 1, waitlisted.Position)
	assert.NotZero(t, waitlisted.WaitingListID)
	assert.Zero(t, waitlisted.BookingID)
	assert.Equal(t, "Event is sold out. You have been added to the waiting list.", waitlisted.Message)

	second, err := engine.Book(ctx, eventID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)

	// Waitlisting does not create bookings or touch the counter
	event := store.eventSnapshot(eventID)
	assert.Equal(t, 0, event.AvailableTickets)
	assert.Equal(t, 1, store.confirmedCount(eventID))
}

func TestBook_RejectsInvalidIDs(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	_, err := engine.Book(ctx, 0, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = engine.Book(ctx, 1, 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestBook_UnknownEvent(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	_, err := engine.Book(context.Background(), 42, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestBook_RejectsDuplicateBooking(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Conference", 10)

	_, err := engine.Book(ctx, eventID, 7)
	require.NoError(t, err)

	_, err = engine.Book(ctx, eventID, 7)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "user already has a booking for this event", apperrors.MessageOf(err))

	// The failed attempt must not consume a ticket
	event := store.eventSnapshot(eventID)
	assert.Equal(t, 9, event.AvailableTickets)
}

func TestBook_RejectsDuplicateWaitlistEntry(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Tiny Venue", 1)

	_, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)
	_, err = engine.Book(ctx, eventID, 2)
	require.NoError(t, err)

	_, err = engine.Book(ctx, eventID, 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "user is already on the waiting list for this event", apperrors.MessageOf(err))

	positions := store.waitingPositions(eventID)
	assert.Len(t, positions, 1)
}

func TestCancel_ReturnsTicketWhenNobodyWaiting(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Workshop", 5)

	result, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)

	cancelResult, err := engine.Cancel(ctx, result.BookingID)
	require.NoError(t, err)
	assert.False(t, cancelResult.Reassigned)
	assert.Nil(t, cancelResult.ReassignedTo)

	event := store.eventSnapshot(eventID)
	assert.Equal(t, 5, event.AvailableTickets)

	booking := store.bookingSnapshot(result.BookingID)
	assert.True(t, booking.IsCancelled())
	assert.NotNil(t, booking.CancelledAt)
}

func TestCancel_PromotesLongestWaitingUser(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Club Night", 1)

	first, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)
	_, err = engine.Book(ctx, eventID, 2)
	require.NoError(t, err)
	_, err = engine.Book(ctx, eventID, 3)
	require.NoError(t, err)

	cancelResult, err := engine.Cancel(ctx, first.BookingID)
	require.NoError(t, err)
	require.True(t, cancelResult.Reassigned)
	require.NotNil(t, cancelResult.ReassignedTo)
	assert.Equal(t, uint(2), cancelResult.ReassignedTo.UserID)

	// The ticket transfers directly; the counter never moves
	event := store.eventSnapshot(eventID)
	assert.Equal(t, 0, event.AvailableTickets)
	assert.Equal(t, 1, store.confirmedCount(eventID))

	newBooking := store.bookingSnapshot(cancelResult.ReassignedTo.BookingID)
	assert.True(t, newBooking.IsConfirmed())
	assert.Equal(t, uint(2), newBooking.UserID)

	// User 3 is now the head of the queue
	positions := store.waitingPositions(eventID)
	assert.Equal(t, []int{2}, positions)
}

func TestCancel_PromotedUserCanCancelToo(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Club Night", 1)

	first, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)
	_, err = engine.Book(ctx, eventID, 2)
	require.NoError(t, err)

	cancelResult, err := engine.Cancel(ctx, first.BookingID)
	require.NoError(t, err)
	require.True(t, cancelResult.Reassigned)

	// Queue is empty now, so this cancel frees the ticket
	second, err := engine.Cancel(ctx, cancelResult.ReassignedTo.BookingID)
	require.NoError(t, err)
	assert.False(t, second.Reassigned)

	event := store.eventSnapshot(eventID)
	assert.Equal(t, 1, event.AvailableTickets)
	assert.Equal(t, 0, store.confirmedCount(eventID))
}

func TestCancel_RejectsInvalidID(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	_, err := engine.Cancel(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCancel_UnknownBooking(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	eventID := store.addEvent("Conference", 5)

	_, err := engine.Cancel(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "booking not found", apperrors.MessageOf(err))

	event := store.eventSnapshot(eventID)
	assert.Equal(t, 5, event.AvailableTickets)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Workshop", 3)

	result, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, result.BookingID)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, result.BookingID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "booking is already cancelled", apperrors.MessageOf(err))

	// The second cancel must not touch the counter again
	event := store.eventSnapshot(eventID)
	assert.Equal(t, 3, event.AvailableTickets)
}

func TestBook_CancelledUserCanRebook(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Meetup", 2)

	first, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, first.BookingID)
	require.NoError(t, err)

	second, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", second.Status)
	assert.NotEqual(t, first.BookingID, second.BookingID)
}

func TestEngine_PublishesLifecycleEvents(t *testing.T) {
	store := newMemStore()
	publisher := &recordingPublisher{}
	engine := newTestEngineWithPublisher(store, publisher)
	ctx := context.Background()

	eventID := store.addEvent("Streamed Show", 1)

	first, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)
	_, err = engine.Book(ctx, eventID, 2)
	require.NoError(t, err)
	_, err = engine.Cancel(ctx, first.BookingID)
	require.NoError(t, err)

	recorded := publisher.recorded()
	require.Len(t, recorded, 4)
	assert.Equal(t, bookings.EventBookingConfirmed, recorded[0].Type)
	assert.Equal(t, bookings.EventUserWaitlisted, recorded[1].Type)
	assert.Equal(t, bookings.EventBookingCancelled, recorded[2].Type)
	assert.Equal(t, bookings.EventTicketReassigned, recorded[3].Type)

	assert.Equal(t, uint(2), recorded[3].UserID)
	for _, record := range recorded {
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, eventID, record.EventID)
	}
}

func TestEngine_ConflictLeavesNoTrace(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	ctx := context.Background()

	eventID := store.addEvent("Popular Event", 1)

	_, err := engine.Book(ctx, eventID, 1)
	require.NoError(t, err)

	// Conflict path rolls back; no waitlist entry or booking may remain
	_, err = engine.Book(ctx, eventID, 1)
	require.Error(t, err)

	assert.Equal(t, 1, store.confirmedCount(eventID))
	assert.Empty(t, store.waitingPositions(eventID))
}
