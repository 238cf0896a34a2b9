package maps

import "errors"

var (
	// ErrEmptyQuery is returned when a search query is blank.
	ErrEmptyQuery = errors.New("maps: empty query")
	// ErrEmptyEndpoint is returned when a directions origin or destination is blank.
	ErrEmptyEndpoint = errors.New("maps: origin and destination are required")
	// ErrNoAPIKey is returned by NewClient without an API key.
	ErrNoAPIKey = errors.New("maps: api key is required")
)
