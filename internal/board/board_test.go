package board

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/platformboard/internal/departures"
)

type fakeFetcher struct {
	groups []departures.PlatformGroup
	err    error
	block  chan struct{}

	calls    int
	lastCode string
}

func (f *fakeFetcher) FetchDepartures(ctx context.Context, code string) ([]departures.PlatformGroup, error) {
	f.calls++
	f.lastCode = code
	if f.block != nil {
		<-f.block
	}
	return f.groups, f.err
}

func newTestBoard(f Fetcher) *Board {
	logger, _ := test.NewNullLogger()
	return New(f, logger)
}

func group(platform string, n int) departures.PlatformGroup {
	g := departures.PlatformGroup{Platform: platform}
	for i := 0; i < n; i++ {
		g.Departures = append(g.Departures, departures.Departure{
			Time:     time.Date(2026, 10, 19, 8, i, 0, 0, time.UTC).Format("15:04"),
			Platform: platform,
		})
	}
	return g
}

func TestBoard_Success(t *testing.T) {
	f := &fakeFetcher{groups: []departures.PlatformGroup{group("4", 5), group("1", 2)}}
	b := newTestBoard(f)
	assert.Equal(t, Idle, b.State())

	res, err := b.Submit(context.Background(), " kgx ")
	require.NoError(t, err)

	assert.Equal(t, "KGX", f.lastCode)
	assert.Equal(t, Success, res.State)
	assert.Equal(t, Success, b.State())
	assert.Empty(t, res.Message)

	visible := res.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "4", visible[0].Platform)
	assert.Len(t, visible[0].Departures, MaxRowsPerPlatform)
	assert.Equal(t, "08:00", visible[0].Departures[0].Time)
	assert.Equal(t, "08:02", visible[0].Departures[2].Time)
	assert.Equal(t, "1", visible[1].Platform)
	assert.Len(t, visible[1].Departures, 2)

	// Visible must not mutate the result.
	assert.Len(t, res.Groups[0].Departures, 5)
}

func TestBoard_ValidationError(t *testing.T) {
	for _, input := range []string{"", "  ", "EU", "EUST", "E5S", "London Euston"} {
		f := &fakeFetcher{}
		b := newTestBoard(f)

		res, err := b.Submit(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, ValidationError, res.State, input)
		assert.Equal(t, MsgInvalidCode, res.Message)
		assert.Nil(t, res.Groups)
		assert.Zero(t, f.calls, input)
	}
}

func TestBoard_Empty(t *testing.T) {
	b := newTestBoard(&fakeFetcher{groups: []departures.PlatformGroup{}})

	res, err := b.Submit(context.Background(), "EUS")
	require.NoError(t, err)
	assert.Equal(t, Empty, res.State)
	assert.Equal(t, "No departures found.", res.Message)
	assert.Empty(t, res.Visible())
}

func TestBoard_FetchError(t *testing.T) {
	f := &fakeFetcher{
		groups: []departures.PlatformGroup{group("1", 1)},
		err:    errors.New("Upstream API error"),
	}
	b := newTestBoard(f)

	res, err := b.Submit(context.Background(), "EUS")
	require.NoError(t, err)
	assert.Equal(t, FetchError, res.State)
	assert.Equal(t, "Failed to fetch departures. Upstream API error", res.Message)
	assert.Nil(t, res.Groups)
}

func TestBoard_RejectsResubmitWhileLoading(t *testing.T) {
	f := &fakeFetcher{groups: []departures.PlatformGroup{group("1", 1)}, block: make(chan struct{})}
	b := newTestBoard(f)

	done := make(chan Result)
	go func() {
		res, _ := b.Submit(context.Background(), "EUS")
		done <- res
	}()

	require.Eventually(t, func() bool { return b.State() == Loading }, time.Second, time.Millisecond)

	_, err := b.Submit(context.Background(), "KGX")
	assert.ErrorIs(t, err, ErrInFlight)

	close(f.block)
	res := <-done
	assert.Equal(t, Success, res.State)
	assert.Equal(t, 1, f.calls)

	// A terminal state accepts the next submission.
	f.block = nil
	res, err = b.Submit(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", res.Code)
	assert.Equal(t, res, b.Last())
}

func TestProxyClient_FetchDepartures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/departures/EUS":
			w.Write([]byte(`[{"platform": "1", "departures": [{"time": "08:00", "destination": "Crewe", "platform": "1", "status": "On time"}]}]`))
		case "/api/departures/BAD":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error": "Upstream API error"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`oops`))
		}
	}))
	defer server.Close()

	client := NewProxyClient(server.URL + "/")

	groups, err := client.FetchDepartures(context.Background(), "EUS")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, departures.Departure{Time: "08:00", Destination: "Crewe", Platform: "1", Status: "On time"}, groups[0].Departures[0])

	_, err = client.FetchDepartures(context.Background(), "BAD")
	assert.EqualError(t, err, "Upstream API error")

	_, err = client.FetchDepartures(context.Background(), "XXX")
	assert.EqualError(t, err, "unexpected status code: 500")
}

func TestProxyClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	b := newTestBoard(NewProxyClient(url))
	res, err := b.Submit(context.Background(), "EUS")
	require.NoError(t, err)
	assert.Equal(t, FetchError, res.State)
	assert.Contains(t, res.Message, "Failed to fetch departures.")
}

type panickingFetcher struct{}

func (panickingFetcher) FetchDepartures(ctx context.Context, code string) ([]departures.PlatformGroup, error) {
	panic("fetcher exploded")
}

func TestBoard_FetcherPanicLeavesTerminalState(t *testing.T) {
	b := newTestBoard(panickingFetcher{})

	assert.PanicsWithValue(t, "fetcher exploded", func() {
		b.Submit(context.Background(), "EUS")
	})
	assert.Equal(t, FetchError, b.State())
	assert.Equal(t, "EUS", b.Last().Code)

	b.fetcher = &fakeFetcher{groups: []departures.PlatformGroup{group("1", 1)}}
	res, err := b.Submit(context.Background(), "EUS")
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)
}
