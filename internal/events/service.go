package events

import (
	"context"
	"strings"
	"time"

	"ticketry/pkg/apperrors"
	"ticketry/pkg/cache"
	"ticketry/pkg/logger"
)

// BookingCounter reports confirmed bookings per event (implemented by the
// bookings repository; declared here to avoid a circular dependency).
type BookingCounter interface {
	CountConfirmed(ctx context.Context, eventID uint) (int64, error)
}

// WaitlistCounter reports waiting entries per event (implemented by the
// waitlist repository).
type WaitlistCounter interface {
	CountWaiting(ctx context.Context, eventID uint) (int64, error)
}

type Service interface {
	// SetCacheService injects the optional status cache
	SetCacheService(cacheService cache.Service, ttl time.Duration)
	Initialize(ctx context.Context, req InitializeEventRequest) (*EventResponse, error)
	GetStatus(ctx context.Context, eventID uint) (*EventStatusResponse, error)
}

type service struct {
	repo            Repository
	bookingCounter  BookingCounter
	waitlistCounter WaitlistCounter
	cacheService    cache.Service
	statusCacheTTL  time.Duration
}

func NewService(repo Repository, bookingCounter BookingCounter, waitlistCounter WaitlistCounter) Service {
	return &service{
		repo:            repo,
		bookingCounter:  bookingCounter,
		waitlistCounter: waitlistCounter,
	}
}

func (s *service) SetCacheService(cacheService cache.Service, ttl time.Duration) {
	s.cacheService = cacheService
	s.statusCacheTTL = ttl
}

// Initialize creates an event with its full ticket pool available.
func (s *service) Initialize(ctx context.Context, req InitializeEventRequest) (*EventResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("event name is required")
	}
	if req.TotalTickets <= 0 {
		return nil, apperrors.Validation("total tickets must be a positive number")
	}

	event := &Event{
		Name:             strings.TrimSpace(req.Name),
		TotalTickets:     req.TotalTickets,
		AvailableTickets: req.TotalTickets,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, apperrors.Persistence("failed to create event", err)
	}

	logger.GetDefault().LogEventInitialized(ctx, event.ID, event.Name, event.TotalTickets)

	return &EventResponse{
		EventID:          event.ID,
		Name:             event.Name,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
	}, nil
}

// GetStatus is a read-only, non-locking report. It may serve a recent cached
// snapshot rather than the very latest committed state.
func (s *service) GetStatus(ctx context.Context, eventID uint) (*EventStatusResponse, error) {
	if eventID == 0 {
		return nil, apperrors.Validation("valid event ID is required")
	}

	if s.cacheService != nil {
		var status EventStatusResponse
		err := s.cacheService.GetOrSet(ctx, StatusCacheKey(eventID), s.statusCacheTTL, func() (interface{}, error) {
			return s.fetchStatus(ctx, eventID)
		}, &status)
		if err != nil {
			return nil, err
		}
		return &status, nil
	}

	return s.fetchStatus(ctx, eventID)
}

func (s *service) fetchStatus(ctx context.Context, eventID uint) (*EventStatusResponse, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.Persistence("failed to read event", err)
	}
	if event == nil {
		return nil, apperrors.NotFound("event not found")
	}

	bookedTickets, err := s.bookingCounter.CountConfirmed(ctx, eventID)
	if err != nil {
		return nil, apperrors.Persistence("failed to count bookings", err)
	}

	waitingListCount, err := s.waitlistCounter.CountWaiting(ctx, eventID)
	if err != nil {
		return nil, apperrors.Persistence("failed to count waiting list", err)
	}

	return &EventStatusResponse{
		EventID:          event.ID,
		Name:             event.Name,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
		BookedTickets:    int(bookedTickets),
		WaitingListCount: int(waitingListCount),
	}, nil
}
