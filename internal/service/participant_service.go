package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/repository"
)

// ParticipantService handles business logic for event participants
type ParticipantService struct {
	repo   *repository.ParticipantRepository
	events *repository.EventRepository
	Shared
}

// NewParticipantService creates a new participant service
func NewParticipantService(repo *repository.ParticipantRepository, events *repository.EventRepository, shared Shared) *ParticipantService {
	return &ParticipantService{repo: repo, events: events, Shared: shared.withDefaults("participants")}
}

// List returns the participants of an event, most recently joined first
func (s *ParticipantService) List(ctx context.Context, eventID string) ([]models.Participant, error) {
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.Cache, cache.ParticipantsKey(eventID), func(ctx context.Context) ([]models.Participant, error) {
		return s.repo.ListByEvent(ctx, eventID)
	})
}

// Join adds userID to the event, or brings them back after leaving
func (s *ParticipantService) Join(ctx context.Context, eventID, userID string) (*models.Participant, error) {
	e, err := eventExists(ctx, s.events, eventID)
	if err != nil {
		return nil, err
	}
	if e.Status == models.EventClosed {
		return nil, invalid("search event is closed")
	}

	p, err := s.repo.Join(ctx, eventID, userID, s.Now())
	if err != nil {
		return nil, err
	}
	s.changed(models.TableEventParticipants, notify.OpInsert, eventID, p.ID)
	s.Logger.Info("participant joined", slog.String("event_id", eventID), slog.String("user_id", userID))
	return p, nil
}

// Leave marks userID as having left the event
func (s *ParticipantService) Leave(ctx context.Context, eventID, userID string) (*models.Participant, error) {
	return s.SetStatus(ctx, eventID, userID, models.ParticipantLeft)
}

// SetStatus moves a participant to active, paused or left
func (s *ParticipantService) SetStatus(ctx context.Context, eventID, userID, status string) (*models.Participant, error) {
	var (
		leftAt *time.Time
		paused bool
	)
	switch status {
	case models.ParticipantActive:
	case models.ParticipantPaused:
		paused = true
	case models.ParticipantLeft:
		now := s.Now()
		leftAt = &now
	default:
		return nil, invalid("unknown participant status %q", status)
	}

	ok, err := s.repo.SetState(ctx, eventID, userID, leftAt, paused)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("participant")
	}

	p, err := s.repo.Get(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("participant")
	}
	s.changed(models.TableEventParticipants, notify.OpUpdate, eventID, p.ID)
	return p, nil
}
