package departures

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danpilch/platformboard/internal/api/huxley"
)

func str(s string) *string { return &s }

func TestNormalize_Defaults(t *testing.T) {
	tests := []struct {
		name string
		svc  huxley.Service
		want Departure
	}{
		{
			name: "all fields missing",
			svc:  huxley.Service{},
			want: Departure{Time: NoTime, Destination: NoDestination, Platform: NoPlatform, Status: NoStatus},
		},
		{
			name: "on time",
			svc: huxley.Service{
				STD:         str("10:15"),
				ETD:         str("On time"),
				Platform:    str("4"),
				Destination: []huxley.Destination{{LocationName: str("Glasgow Central")}},
			},
			want: Departure{Time: "10:15", Destination: "Glasgow Central", Platform: "4", Status: "On time"},
		},
		{
			name: "estimate only",
			svc:  huxley.Service{ETD: str("10:22")},
			want: Departure{Time: "10:22", Destination: NoDestination, Platform: NoPlatform, Status: "10:22"},
		},
		{
			name: "delayed passthrough",
			svc:  huxley.Service{STD: str("11:00"), ETD: str("Delayed")},
			want: Departure{Time: "11:00", Destination: NoDestination, Platform: NoPlatform, Status: "Delayed"},
		},
		{
			name: "empty strings count as missing",
			svc: huxley.Service{
				STD:         str(""),
				ETD:         str(""),
				Platform:    str(""),
				Destination: []huxley.Destination{{LocationName: str("")}},
			},
			want: Departure{Time: NoTime, Destination: NoDestination, Platform: NoPlatform, Status: NoStatus},
		},
		{
			name: "destination without name",
			svc:  huxley.Service{STD: str("12:00"), Destination: []huxley.Destination{{CRS: str("BHM")}}},
			want: Departure{Time: "12:00", Destination: NoDestination, Platform: NoPlatform, Status: NoStatus},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.svc))
		})
	}
}

func TestGroup_FirstSeenOrder(t *testing.T) {
	deps := []Departure{
		{Time: "08:00", Platform: "2"},
		{Time: "08:05", Platform: "1"},
		{Time: "08:10", Platform: "2"},
		{Time: "08:15", Platform: NoPlatform},
		{Time: "08:20", Platform: "1"},
		{Time: "08:25", Platform: "2"},
	}

	groups := Group(deps)

	if assert.Len(t, groups, 3) {
		assert.Equal(t, "2", groups[0].Platform)
		assert.Equal(t, "1", groups[1].Platform)
		assert.Equal(t, NoPlatform, groups[2].Platform)

		assert.Equal(t, []string{"08:00", "08:10", "08:25"}, times(groups[0].Departures))
		assert.Equal(t, []string{"08:05", "08:20"}, times(groups[1].Departures))
		assert.Equal(t, []string{"08:15"}, times(groups[2].Departures))
	}

	total := 0
	for _, g := range groups {
		total += len(g.Departures)
	}
	assert.Equal(t, len(deps), total)
}

func TestGroup_ExactKeyEquality(t *testing.T) {
	groups := Group([]Departure{{Platform: "1"}, {Platform: "1A"}, {Platform: " 1"}})
	assert.Len(t, groups, 3)
}

func TestGroup_Empty(t *testing.T) {
	groups := Group(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroup_Idempotent(t *testing.T) {
	services := []huxley.Service{
		{STD: str("09:00"), Platform: str("3")},
		{STD: str("09:01")},
		{STD: str("09:02"), Platform: str("3")},
	}

	first := Group(NormalizeAll(services))
	second := Group(NormalizeAll(services))
	assert.Equal(t, first, second)
}

func TestNormalizeCRS(t *testing.T) {
	valid := map[string]string{
		"eus":     "EUS",
		" Man ":   "MAN",
		"KGX":     "KGX",
		"\tbhm\n": "BHM",
	}
	for in, want := range valid {
		got, ok := NormalizeCRS(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "EU", "EUST", "E1S", "EÜS", "E S", "london"} {
		_, ok := NormalizeCRS(in)
		assert.False(t, ok, in)
	}
}

func times(deps []Departure) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.Time)
	}
	return out
}
