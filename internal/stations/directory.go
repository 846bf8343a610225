package stations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/departures"
)

// MaxSuggestions caps the number of autocomplete matches.
const MaxSuggestions = 8

const listKey = "stations"

var (
	ErrNoMatch   = errors.New("no matching station")
	ErrAmbiguous = errors.New("station name is ambiguous")
)

// Directory lazily loads the station list once and keeps it for the life of
// the process. A failed load is returned to the caller and not cached.
type Directory struct {
	source Source
	logger *logrus.Logger

	mu    sync.Mutex
	cache *cache.Cache
}

func NewDirectory(source Source, logger *logrus.Logger) *Directory {
	return &Directory{
		source: source,
		logger: logger,
		cache:  cache.New(cache.NoExpiration, 0),
	}
}

// Stations returns the directory, loading it on first use.
func (d *Directory) Stations(ctx context.Context) ([]Station, error) {
	if list, ok := d.cached(); ok {
		return list, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if list, ok := d.cached(); ok {
		return list, nil
	}

	list, err := d.source.Load(ctx)
	if err != nil {
		d.logger.WithField("error", err).Error("failed to load station directory")
		return nil, err
	}

	d.cache.Set(listKey, list, cache.NoExpiration)
	d.logger.WithField("stations", len(list)).Info("station directory loaded")

	return list, nil
}

func (d *Directory) cached() ([]Station, bool) {
	v, ok := d.cache.Get(listKey)
	if !ok {
		return nil, false
	}
	return v.([]Station), true
}

// Suggest returns autocomplete matches for query.
func (d *Directory) Suggest(ctx context.Context, query string) ([]Station, error) {
	if query == "" {
		return []Station{}, nil
	}
	list, err := d.Stations(ctx)
	if err != nil {
		return nil, err
	}
	return Match(query, list, MaxSuggestions), nil
}

// Resolve turns user input into a station code. Input that already looks like
// a code is returned as is; otherwise the input must match exactly one station
// name, or exactly equal one name ignoring case.
func (d *Directory) Resolve(ctx context.Context, input string) (string, error) {
	if code, ok := departures.NormalizeCRS(input); ok {
		return code, nil
	}

	matches, err := d.Suggest(ctx, input)
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrNoMatch, input)
	case 1:
		return matches[0].Code, nil
	}

	want := strings.ToLower(strings.TrimSpace(input))
	for _, s := range matches {
		if strings.ToLower(s.Name) == want {
			return s.Code, nil
		}
	}

	names := make([]string, 0, len(matches))
	for _, s := range matches {
		names = append(names, fmt.Sprintf("%s (%s)", s.Name, s.Code))
	}
	return "", fmt.Errorf("%w: %q matches %s", ErrAmbiguous, input, strings.Join(names, ", "))
}

// Match keeps stations whose name contains query or whose code starts with it,
// ignoring case, in directory order and capped at limit.
func Match(query string, list []Station, limit int) []Station {
	matches := make([]Station, 0)
	if query == "" {
		return matches
	}

	q := strings.ToLower(strings.TrimSpace(query))
	for _, s := range list {
		if len(matches) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.HasPrefix(strings.ToLower(s.Code), q) {
			matches = append(matches, s)
		}
	}

	return matches
}
