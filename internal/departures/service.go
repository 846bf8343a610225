package departures

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/api/huxley"
)

var errMalformedServices = errors.New("no upstream service could be decoded")

// Upstream is the departures provider the proxy forwards to.
type Upstream interface {
	AccessToken() string
	Departures(ctx context.Context, crs string, rows int) (*huxley.DeparturesResponse, error)
}

// Service validates station codes, calls the upstream provider once per
// lookup and returns platform grouped departures. It holds no mutable state.
type Service struct {
	upstream Upstream
	rows     int
	logger   *logrus.Logger
}

func NewService(upstream Upstream, rows int, logger *logrus.Logger) *Service {
	if rows <= 0 {
		rows = DefaultRows
	}
	return &Service{
		upstream: upstream,
		rows:     rows,
		logger:   logger,
	}
}

// Lookup returns the platform groups for a station code. An empty board is a
// valid, non-error result.
func (s *Service) Lookup(ctx context.Context, rawCode string) ([]PlatformGroup, error) {
	crs, ok := NormalizeCRS(rawCode)
	if !ok {
		return nil, &Error{Kind: InvalidInput, Message: "Invalid CRS code"}
	}

	if s.upstream.AccessToken() == "" {
		s.logger.Error("upstream access token is not configured")
		return nil, &Error{Kind: ConfigurationError, Message: "Missing HUXLEY_ACCESS_TOKEN"}
	}

	start := time.Now()
	resp, err := s.upstream.Departures(ctx, crs, s.rows)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"crs":      crs,
			"duration": time.Since(start),
			"error":    err,
		}).Warn("upstream departures request failed")
		return nil, &Error{Kind: UpstreamError, Message: "Upstream API error", Err: err}
	}

	services, malformed, ok := resp.Services()
	if !ok {
		s.logger.WithField("crs", crs).Debug("upstream returned no service list")
		return []PlatformGroup{}, nil
	}
	if malformed > 0 && len(services) == 0 {
		s.logger.WithFields(logrus.Fields{
			"crs":       crs,
			"malformed": malformed,
		}).Warn("upstream service list could not be decoded")
		return nil, &Error{Kind: UpstreamError, Message: "Upstream API error", Err: errMalformedServices}
	}
	if malformed > 0 {
		s.logger.WithFields(logrus.Fields{
			"crs":       crs,
			"malformed": malformed,
		}).Warn("skipped malformed upstream services")
	}

	groups := Group(NormalizeAll(services))

	s.logger.WithFields(logrus.Fields{
		"crs":      crs,
		"services": len(services),
		"groups":   len(groups),
		"duration": time.Since(start),
	}).Debug("departures fetched")

	return groups, nil
}
