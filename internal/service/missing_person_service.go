package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/sarcoord/rescue-backend-go/internal/analysis/zones"
	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/repository"
	"github.com/sarcoord/rescue-backend-go/internal/spatial"
)

// ZoneObserver is told about rejected zone sets
type ZoneObserver interface {
	ZoneRejected(kind string)
}

// MissingPersonService handles business logic for missing persons
type MissingPersonService struct {
	repo      *repository.MissingPersonRepository
	events    *repository.EventRepository
	validator *zones.Validator
	observer  ZoneObserver
	Shared
}

// NewMissingPersonService creates a new missing person service. obs may be nil.
func NewMissingPersonService(repo *repository.MissingPersonRepository, events *repository.EventRepository,
	validator *zones.Validator, obs ZoneObserver, shared Shared) *MissingPersonService {
	return &MissingPersonService{
		repo:      repo,
		events:    events,
		validator: validator,
		observer:  obs,
		Shared:    shared.withDefaults("missing_persons"),
	}
}

// List returns the missing persons of an event
func (s *MissingPersonService) List(ctx context.Context, eventID string) ([]models.MissingPerson, error) {
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.Cache, cache.MissingPersonsKey(eventID), func(ctx context.Context) ([]models.MissingPerson, error) {
		return s.repo.ListByEvent(ctx, eventID)
	})
}

// Get returns one missing person
func (s *MissingPersonService) Get(ctx context.Context, id string) (*models.MissingPerson, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("missing person")
	}
	return p, nil
}

// Create registers a missing person on an event. Zone problems are returned
// as *zones.ZoneError.
func (s *MissingPersonService) Create(ctx context.Context, eventID string, req models.MissingPersonRequest) (*models.MissingPerson, error) {
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return nil, err
	}

	now := s.Now()
	p := &models.MissingPerson{
		EventID:          eventID,
		BehaviorCategory: "default",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.apply(p, req); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, invalid("name is required")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.changed(models.TableMissingPersons, notify.OpInsert, eventID, p.ID)
	s.Logger.Info("missing person registered", slog.String("event_id", eventID), slog.String("id", p.ID))
	return p, nil
}

// Update applies a partial update. Changing the behavior category drops the
// stored zones unless new ones come in the same request, since the zones
// were generated for the old category.
func (s *MissingPersonService) Update(ctx context.Context, id string, req models.MissingPersonRequest) (*models.MissingPerson, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCategory := p.BehaviorCategory
	if err := s.apply(p, req); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, invalid("name must not be empty")
	}
	if p.BehaviorCategory != oldCategory && len(req.ProbZones) == 0 {
		p.ProbZones = nil
	}
	p.UpdatedAt = s.Now()

	ok, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("missing person")
	}
	s.changed(models.TableMissingPersons, notify.OpUpdate, p.EventID, p.ID)
	return p, nil
}

// Delete removes a missing person
func (s *MissingPersonService) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("missing person")
	}
	s.changed(models.TableMissingPersons, notify.OpDelete, p.EventID, id)
	return nil
}

// apply copies the non-nil request fields onto p
func (s *MissingPersonService) apply(p *models.MissingPerson, req models.MissingPersonRequest) error {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		if *req.Age < 0 || *req.Age > 130 {
			return invalid("age %d out of range", *req.Age)
		}
		p.Age = req.Age
	}
	if req.HeightCm != nil {
		if *req.HeightCm <= 0 || *req.HeightCm > 300 {
			return invalid("height %d cm out of range", *req.HeightCm)
		}
		p.HeightCm = req.HeightCm
	}
	if req.Clothing != nil {
		p.Clothing = *req.Clothing
	}
	if req.PhotoURL != nil {
		p.PhotoURL = *req.PhotoURL
	}
	if req.BehaviorCategory != nil {
		if !models.ValidBehaviorCategory(*req.BehaviorCategory) {
			return invalid("unknown behavior category %q", *req.BehaviorCategory)
		}
		p.BehaviorCategory = *req.BehaviorCategory
	}
	if req.Location != nil {
		if !spatial.ValidCoordinate(req.Location.Lat, req.Location.Lng) {
			return invalid("location %v,%v out of range", req.Location.Lat, req.Location.Lng)
		}
		loc := *req.Location
		p.Location = &loc
	}
	if len(req.ProbZones) > 0 {
		zs, err := s.validateZones(req.ProbZones)
		if err != nil {
			return err
		}
		p.ProbZones = zs
	}
	return nil
}

// validateZones runs the zone validator on raw request JSON. The literal
// null clears the zones.
func (s *MissingPersonService) validateZones(raw json.RawMessage) (models.ZoneSet, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	zs, err := s.validator.ValidateJSON(raw)
	if err != nil {
		var ze *zones.ZoneError
		if errors.As(err, &ze) && s.observer != nil {
			s.observer.ZoneRejected(ze.KindName())
		}
		return nil, err
	}
	if len(zs) == 0 {
		return nil, nil
	}
	return zs, nil
}
