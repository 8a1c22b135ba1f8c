package models

// Record store tables, also used as change notification channels
const (
	TableSearchEvents      = "search_events"
	TableMissingPersons    = "missing_persons"
	TableEventParticipants = "event_participants"
	TableMapMarkers        = "map_markers"
	TablePolygons          = "polygons"
	TableGPSTracks         = "gps_tracks"
	TableUsers             = "users"
	TableHelpContent       = "help_content"
)
