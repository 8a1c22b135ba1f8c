package models

// ZoneSet maps a probability band label (zone25, zone50, ...) to its polygon vertices
type ZoneSet map[string][]LatLng

// ZoneMeasurement describes the size of one validated zone
type ZoneMeasurement struct {
	Label            string  `json:"label"`
	Vertices         int     `json:"vertices"`
	PlanarAreaKm2    float64 `json:"planar_area_km2"`
	SphericalAreaKm2 float64 `json:"spherical_area_km2"`
}

// ZoneReport is returned by the zone validation endpoint
type ZoneReport struct {
	Zones        ZoneSet           `json:"zones"`
	Measurements []ZoneMeasurement `json:"measurements"`
}
