package departures

import (
	"regexp"
	"strings"
)

// Placeholder values substituted for missing upstream fields.
const (
	NoTime        = "N/A"
	NoDestination = "Unknown"
	NoStatus      = "Unknown"
	NoPlatform    = "—"
	StatusOnTime  = "On time"
)

// DefaultRows is how many raw services are requested from upstream.
const DefaultRows = 9

var crsPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Departure is a single normalized service.
type Departure struct {
	Time        string `json:"time"`
	Destination string `json:"destination"`
	Platform    string `json:"platform"`
	Status      string `json:"status"`
}

// PlatformGroup holds the departures leaving from one platform, in upstream order.
type PlatformGroup struct {
	Platform   string      `json:"platform"`
	Departures []Departure `json:"departures"`
}

// NormalizeCRS trims and upper-cases input and reports whether the result is a
// three letter station code.
func NormalizeCRS(input string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(input))
	return code, crsPattern.MatchString(code)
}
