package service

import (
	"errors"

	"github.com/sarcoord/rescue-backend-go/internal/analysis/zones"
	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// ZoneService checks probability zones without storing them
type ZoneService struct {
	validator *zones.Validator
	observer  ZoneObserver
}

// NewZoneService creates a new zone service. obs may be nil.
func NewZoneService(validator *zones.Validator, obs ZoneObserver) *ZoneService {
	return &ZoneService{validator: validator, observer: obs}
}

// Validate decodes and validates zone JSON and measures the accepted zones.
// Rejections are returned as *zones.ZoneError.
func (s *ZoneService) Validate(raw []byte) (*models.ZoneReport, error) {
	zs, err := s.validator.ValidateJSON(raw)
	if err != nil {
		var ze *zones.ZoneError
		if errors.As(err, &ze) && s.observer != nil {
			s.observer.ZoneRejected(ze.KindName())
		}
		return nil, err
	}
	return &models.ZoneReport{Zones: zs, Measurements: s.validator.Measure(zs)}, nil
}
