package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Shared is what every service needs besides its repositories
type Shared struct {
	Cache     *cache.Cache[any]
	Publisher notify.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

func (s Shared) withDefaults(component string) Shared {
	if s.Cache == nil {
		s.Cache = cache.New[any](0, nil)
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	s.Logger = s.Logger.With(slog.String("component", component))
	if s.Now == nil {
		s.Now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// changed drops the cache keys a write affects and announces it
func (s Shared) changed(table string, op notify.Op, eventID, recordID string) {
	c := notify.Change{Table: table, Op: op, EventID: eventID, RecordID: recordID, At: s.Now()}
	s.Cache.Invalidate(KeysFor(c)...)
	if table == models.TableUsers {
		// participant rows carry user names and roles
		s.Cache.InvalidatePrefix(cache.ParticipantsPrefix)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(c)
	}
}

// KeysFor lists the cache keys made stale by a change
func KeysFor(c notify.Change) []string {
	switch c.Table {
	case models.TableSearchEvents:
		keys := []string{cache.EventsKey()}
		if c.Op == notify.OpDelete && c.EventID != "" {
			keys = append(keys, cache.EventKeys(c.EventID)...)
		}
		return keys
	case models.TableMissingPersons:
		// last-seen locations feed the map bounds
		return []string{cache.MissingPersonsKey(c.EventID), cache.MarkersKey(c.EventID)}
	case models.TableEventParticipants:
		return []string{cache.ParticipantsKey(c.EventID)}
	case models.TableMapMarkers, models.TablePolygons:
		return []string{cache.MarkersKey(c.EventID)}
	case models.TableGPSTracks:
		return []string{cache.MarkersKey(c.EventID), cache.TracksKey(c.EventID)}
	case models.TableUsers:
		return []string{cache.UsersKey()}
	case models.TableHelpContent:
		return []string{cache.HelpKey()}
	}
	return nil
}
