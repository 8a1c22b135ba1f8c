package cache

// Key builders for the record queries the services memoize

func EventsKey() string { return "events" }

func MissingPersonsKey(eventID string) string { return "missing_persons:" + eventID }

// ParticipantsPrefix is shared by every ParticipantsKey
const ParticipantsPrefix = "participants:"

func ParticipantsKey(eventID string) string { return ParticipantsPrefix + eventID }

func MarkersKey(eventID string) string { return "markers:" + eventID }

func TracksKey(eventID string) string { return "tracks:" + eventID }

func UsersKey() string { return "users" }

func HelpKey() string { return "help" }

// EventKeys returns every key scoped to one event
func EventKeys(eventID string) []string {
	return []string{
		MissingPersonsKey(eventID),
		ParticipantsKey(eventID),
		MarkersKey(eventID),
		TracksKey(eventID),
	}
}
