package departures

import "github.com/danpilch/platformboard/internal/api/huxley"

// Normalize reshapes one upstream service. Missing or empty fields fall back
// to the placeholder constants.
func Normalize(svc huxley.Service) Departure {
	std := huxley.Value(svc.STD)
	etd := huxley.Value(svc.ETD)

	var destination string
	if len(svc.Destination) > 0 {
		destination = huxley.Value(svc.Destination[0].LocationName)
	}

	status := etd
	if etd == StatusOnTime {
		status = StatusOnTime
	}

	return Departure{
		Time:        firstNonEmpty(std, etd, NoTime),
		Destination: firstNonEmpty(destination, NoDestination),
		Platform:    firstNonEmpty(huxley.Value(svc.Platform), NoPlatform),
		Status:      firstNonEmpty(status, NoStatus),
	}
}

// NormalizeAll normalizes services in upstream order.
func NormalizeAll(services []huxley.Service) []Departure {
	deps := make([]Departure, 0, len(services))
	for _, svc := range services {
		deps = append(deps, Normalize(svc))
	}
	return deps
}

// Group buckets departures by platform. Groups appear in the order each
// platform is first seen and departures keep their relative order. The result
// is never nil.
func Group(deps []Departure) []PlatformGroup {
	index := make(map[string]int)
	groups := make([]PlatformGroup, 0)

	for _, d := range deps {
		i, exists := index[d.Platform]
		if !exists {
			i = len(groups)
			index[d.Platform] = i
			groups = append(groups, PlatformGroup{Platform: d.Platform})
		}
		groups[i].Departures = append(groups[i].Departures, d)
	}

	return groups
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
