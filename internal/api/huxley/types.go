package huxley

import (
	"bytes"
	"encoding/json"
)

// DeparturesResponse represents the response from the Huxley departures endpoint.
// Every field is optional upstream.
type DeparturesResponse struct {
	GeneratedAt   *string         `json:"generatedAt,omitempty"`
	LocationName  *string         `json:"locationName,omitempty"`
	CRS           *string         `json:"crs,omitempty"`
	TrainServices json.RawMessage `json:"trainServices,omitempty"`
}

// Service represents a single train service on the board.
type Service struct {
	STD         *string       `json:"std,omitempty"`
	ETD         *string       `json:"etd,omitempty"`
	Platform    *string       `json:"platform,omitempty"`
	Destination []Destination `json:"destination,omitempty"`
}

// Destination is one terminating location of a service.
type Destination struct {
	LocationName *string `json:"locationName,omitempty"`
	CRS          *string `json:"crs,omitempty"`
}

// Services decodes the trainServices field one element at a time. ok is false
// when the field is absent, null, or anything other than a JSON array. Elements
// that fail to decode are left out and counted in malformed.
func (r *DeparturesResponse) Services() (services []Service, malformed int, ok bool) {
	raw := bytes.TrimSpace(r.TrainServices)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, 0, false
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, 0, false
	}

	services = make([]Service, 0, len(elems))
	for _, elem := range elems {
		var svc Service
		if err := json.Unmarshal(elem, &svc); err != nil {
			malformed++
			continue
		}
		services = append(services, svc)
	}
	return services, malformed, true
}

// Value dereferences an optional string, returning "" when unset.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
