package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/database"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/repository"
)

// EventService handles business logic for search events
type EventService struct {
	db   *sql.DB
	repo *repository.EventRepository
	Shared
}

// NewEventService creates a new event service
func NewEventService(db *sql.DB, repo *repository.EventRepository, shared Shared) *EventService {
	return &EventService{db: db, repo: repo, Shared: shared.withDefaults("events")}
}

// List returns every event, newest first
func (s *EventService) List(ctx context.Context) ([]models.SearchEvent, error) {
	return cache.Fetch(ctx, s.Cache, cache.EventsKey(), s.repo.List)
}

// Get returns one event
func (s *EventService) Get(ctx context.Context, id string) (*models.SearchEvent, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("search event")
	}
	return e, nil
}

// Active returns the active events
func (s *EventService) Active(ctx context.Context) ([]models.EventSummary, error) {
	return s.repo.ListActive(ctx)
}

// Create starts a new search coordinated by coordinatorID
func (s *EventService) Create(ctx context.Context, coordinatorID string, req models.EventRequest) (*models.SearchEvent, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	status := req.Status
	if status == "" {
		status = models.EventActive
	}
	if !models.ValidEventStatus(status) {
		return nil, invalid("unknown status %q", status)
	}

	now := s.Now()
	e := &models.SearchEvent{
		Name:          name,
		Status:        status,
		StartTime:     now,
		CoordinatorID: coordinatorID,
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.changed(models.TableSearchEvents, notify.OpInsert, e.ID, e.ID)
	s.Logger.Info("search event created", slog.String("event_id", e.ID), slog.String("coordinator", coordinatorID))
	return e, nil
}

// Update renames an event or changes its status
func (s *EventService) Update(ctx context.Context, id string, req models.EventRequest) (*models.SearchEvent, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		e.Name = name
	}
	if req.Status != "" {
		if !models.ValidEventStatus(req.Status) {
			return nil, invalid("unknown status %q", req.Status)
		}
		e.Status = req.Status
	}

	ok, err := s.repo.Update(ctx, e)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("search event")
	}

	s.changed(models.TableSearchEvents, notify.OpUpdate, e.ID, e.ID)
	return e, nil
}

// Delete removes an event together with its missing persons, participants,
// markers, polygons and gps tracks
func (s *EventService) Delete(ctx context.Context, id string) error {
	var existed bool
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		existed, err = s.repo.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	if !existed {
		return notFound("search event")
	}

	s.changed(models.TableSearchEvents, notify.OpDelete, id, id)
	s.Logger.Info("search event deleted", slog.String("event_id", id))
	return nil
}

// eventExists loads the parent event of a nested record
func eventExists(ctx context.Context, repo *repository.EventRepository, id string) (*models.SearchEvent, error) {
	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("search event")
	}
	return e, nil
}
