package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sarcoord/rescue-backend-go/internal/analysis/trajectory"
	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/repository"
	"github.com/sarcoord/rescue-backend-go/internal/spatial"
)

// SegmentationObserver is told about every segmenter run
type SegmentationObserver interface {
	ObserveSegmentation(discarded map[string]int, segments int)
}

// TrackService handles field position reports and the map layers built
// from them
type TrackService struct {
	markers   *repository.MarkerRepository
	persons   *repository.MissingPersonRepository
	events    *repository.EventRepository
	segmenter *trajectory.Segmenter
	observer  SegmentationObserver
	Shared
}

// NewTrackService creates a new track service. obs may be nil.
func NewTrackService(markers *repository.MarkerRepository, persons *repository.MissingPersonRepository,
	events *repository.EventRepository, segmenter *trajectory.Segmenter, obs SegmentationObserver, shared Shared) *TrackService {
	return &TrackService{
		markers:   markers,
		persons:   persons,
		events:    events,
		segmenter: segmenter,
		observer:  obs,
		Shared:    shared.withDefaults("tracks"),
	}
}

// RecordSamples stores a batch of gps fixes reported by userID. Coordinates
// must be in range; accuracy is kept as reported and filtered when tracks
// are built.
func (s *TrackService) RecordSamples(ctx context.Context, eventID, userID string, in []models.GPSSampleInput) (int, error) {
	if len(in) == 0 {
		return 0, invalid("no samples")
	}
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return 0, err
	}

	now := s.Now()
	samples := make([]models.GeoSample, len(in))
	for i, smp := range in {
		if smp.Latitude == nil || smp.Longitude == nil || !spatial.ValidCoordinate(*smp.Latitude, *smp.Longitude) {
			return 0, invalid("sample %d has an invalid coordinate", i)
		}
		if smp.Accuracy != nil && *smp.Accuracy < 0 {
			return 0, invalid("sample %d has a negative accuracy", i)
		}
		at := now
		if smp.RecordedAt != nil {
			at = smp.RecordedAt.UTC()
		}
		samples[i] = models.GeoSample{
			EventID:   eventID,
			UserID:    userID,
			Latitude:  smp.Latitude,
			Longitude: smp.Longitude,
			Accuracy:  smp.Accuracy,
			Kind:      models.KindGPSTrack,
			Timestamp: at,
		}
	}

	if err := s.markers.InsertSamples(ctx, samples); err != nil {
		return 0, err
	}
	s.changed(models.TableGPSTracks, notify.OpInsert, eventID, samples[len(samples)-1].ID)
	s.Logger.Debug("gps samples recorded", slog.String("event_id", eventID), slog.String("user_id", userID), slog.Int("count", len(samples)))
	return len(samples), nil
}

// AddMarker stores a map marker placed by userID
func (s *TrackService) AddMarker(ctx context.Context, eventID, userID string, req models.MapMarkerRequest) (*models.MapMarker, error) {
	if req.Latitude == nil || req.Longitude == nil || !spatial.ValidCoordinate(*req.Latitude, *req.Longitude) {
		return nil, invalid("marker coordinate out of range")
	}
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return nil, err
	}

	m := &models.MapMarker{
		EventID:     eventID,
		UserID:      userID,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Label:       req.Label,
		Description: req.Description,
		CreatedAt:   s.Now(),
	}
	if err := s.markers.CreateMarker(ctx, m); err != nil {
		return nil, err
	}
	s.changed(models.TableMapMarkers, notify.OpInsert, eventID, m.ID)
	return m, nil
}

// AddPolygon stores a polygon drawn by userID. The coordinates text is kept
// as sent but must contain at least one readable [lng, lat] pair.
func (s *TrackService) AddPolygon(ctx context.Context, eventID, userID string, req models.PolygonRequest) (*models.Polygon, error) {
	points := ParsePolygonCoordinates(req.Coordinates)
	if len(points) == 0 {
		return nil, invalid("polygon coordinates are unreadable")
	}
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return nil, err
	}

	p := &models.Polygon{
		EventID:     eventID,
		UserID:      userID,
		Coordinates: req.Coordinates,
		Label:       req.Label,
		Points:      points,
		CreatedAt:   s.Now(),
	}
	if err := s.markers.CreatePolygon(ctx, p); err != nil {
		return nil, err
	}
	s.changed(models.TablePolygons, notify.OpInsert, eventID, p.ID)
	return p, nil
}

// Markers returns everything drawn on the event map together with its
// bounding box
func (s *TrackService) Markers(ctx context.Context, eventID string) (*models.MarkerLayer, error) {
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.Cache, cache.MarkersKey(eventID), func(ctx context.Context) (*models.MarkerLayer, error) {
		return s.loadMarkers(ctx, eventID)
	})
}

func (s *TrackService) loadMarkers(ctx context.Context, eventID string) (*models.MarkerLayer, error) {
	var (
		layer     models.MarkerLayer
		locations []models.LatLng
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		layer.MapMarkers, err = s.markers.ListMarkers(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		layer.Polygons, err = s.markers.ListPolygons(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		layer.GPSTracks, err = s.markers.ListSamples(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		locations, err = s.persons.Locations(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load map layers: %w", err)
	}

	for i := range layer.Polygons {
		layer.Polygons[i].Points = ParsePolygonCoordinates(layer.Polygons[i].Coordinates)
	}
	layer.Bounds = layerBounds(&layer, locations)
	return &layer, nil
}

// Tracks segments the event's gps samples into per-participant polylines,
// ordered by user id
func (s *TrackService) Tracks(ctx context.Context, eventID string) ([]models.Track, error) {
	if _, err := eventExists(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.Cache, cache.TracksKey(eventID), func(ctx context.Context) ([]models.Track, error) {
		samples, err := s.markers.ListSamples(ctx, eventID)
		if err != nil {
			return nil, err
		}

		res := s.segmenter.Run(samples)
		if s.observer != nil {
			discarded := make(map[string]int, len(res.Discarded))
			for reason, n := range res.Discarded {
				discarded[string(reason)] = n
			}
			s.observer.ObserveSegmentation(discarded, res.SegmentCount())
		}
		s.Logger.Debug("tracks segmented",
			slog.String("event_id", eventID),
			slog.Int("samples", len(samples)),
			slog.Int("retained", res.Retained),
			slog.Int("segments", res.SegmentCount()),
		)
		return trajectory.Ordered(res.Tracks), nil
	})
}

var (
	pairPattern   = regexp.MustCompile(`\[([^\[\]]+)\]`)
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`)
)

// ParsePolygonCoordinates reads [lng, lat] pairs from polygon text. Proper
// JSON is tried first; otherwise every bracketed group holding exactly two
// numbers is taken as a pair. Out of range pairs are dropped.
func ParsePolygonCoordinates(text string) [][2]float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var pairs [][2]float64
	if err := json.Unmarshal([]byte(text), &pairs); err != nil {
		pairs = nil
		for _, group := range pairPattern.FindAllStringSubmatch(text, -1) {
			nums := numberPattern.FindAllString(group[1], -1)
			if len(nums) != 2 {
				continue
			}
			lng, err1 := strconv.ParseFloat(nums[0], 64)
			lat, err2 := strconv.ParseFloat(nums[1], 64)
			if err1 != nil || err2 != nil {
				continue
			}
			pairs = append(pairs, [2]float64{lng, lat})
		}
	}

	out := pairs[:0]
	for _, p := range pairs {
		if spatial.ValidCoordinate(p[1], p[0]) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func layerBounds(layer *models.MarkerLayer, locations []models.LatLng) *models.Bounds {
	var pts []spatial.Point
	for _, m := range layer.MapMarkers {
		pts = append(pts, spatial.Point{Lat: m.Latitude, Lon: m.Longitude})
	}
	for _, p := range layer.Polygons {
		for _, c := range p.Points {
			pts = append(pts, spatial.Point{Lat: c[1], Lon: c[0]})
		}
	}
	for _, smp := range layer.GPSTracks {
		if smp.Latitude != nil && smp.Longitude != nil && spatial.ValidCoordinate(*smp.Latitude, *smp.Longitude) {
			pts = append(pts, spatial.Point{Lat: *smp.Latitude, Lon: *smp.Longitude})
		}
	}
	for _, l := range locations {
		pts = append(pts, spatial.Point{Lat: l.Lat, Lon: l.Lng})
	}
	if len(pts) == 0 {
		return nil
	}

	minLat, minLng, maxLat, maxLng := spatial.BoundingBox(pts)
	return &models.Bounds{MinLat: minLat, MinLng: minLng, MaxLat: maxLat, MaxLng: maxLng}
}
