package board

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/departures"
)

// MaxRowsPerPlatform is how many departures are shown under each platform.
const MaxRowsPerPlatform = 3

// User facing messages for the non-success outcomes.
const (
	MsgInvalidCode  = "Please enter a valid 3-letter station code (e.g. EUS)"
	MsgNoDepartures = "No departures found."
	msgFetchFailed  = "Failed to fetch departures."
)

// ErrInFlight is returned when a lookup is submitted while another is loading.
var ErrInFlight = errors.New("a departure lookup is already in progress")

type State int

const (
	Idle State = iota
	Loading
	Success
	Empty
	ValidationError
	FetchError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Empty:
		return "empty"
	case ValidationError:
		return "validation_error"
	case FetchError:
		return "fetch_error"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a lookup.
func (s State) Terminal() bool {
	return s >= Success
}

// Result is the outcome of one lookup. Groups is only set on Success; Message
// is set for every other terminal state.
type Result struct {
	State   State
	Code    string
	Groups  []departures.PlatformGroup
	Message string
}

// Visible returns the groups in proxy order with each capped at
// MaxRowsPerPlatform departures.
func (r Result) Visible() []departures.PlatformGroup {
	out := make([]departures.PlatformGroup, 0, len(r.Groups))
	for _, g := range r.Groups {
		deps := g.Departures
		if len(deps) > MaxRowsPerPlatform {
			deps = deps[:MaxRowsPerPlatform]
		}
		out = append(out, departures.PlatformGroup{Platform: g.Platform, Departures: deps})
	}
	return out
}

// Board drives a single departure lookup at a time:
// Idle -> Loading -> Success | Empty | ValidationError | FetchError.
type Board struct {
	fetcher Fetcher
	logger  *logrus.Logger

	mu    sync.Mutex
	state State
	last  Result
}

func New(fetcher Fetcher, logger *logrus.Logger) *Board {
	return &Board{
		fetcher: fetcher,
		logger:  logger,
	}
}

// State returns the current state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Last returns the most recent terminal result.
func (b *Board) Last() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Submit normalizes input and, if it is a valid code, fetches its departures.
// Invalid input never reaches the fetcher.
func (b *Board) Submit(ctx context.Context, input string) (Result, error) {
	b.mu.Lock()
	if b.state == Loading {
		b.mu.Unlock()
		return Result{}, ErrInFlight
	}
	b.state = Idle

	code, ok := departures.NormalizeCRS(input)
	if !ok {
		res := Result{State: ValidationError, Code: code, Message: MsgInvalidCode}
		b.finishLocked(res)
		b.mu.Unlock()
		return res, nil
	}

	b.state = Loading
	b.mu.Unlock()

	finished := false
	defer func() {
		if finished {
			return
		}
		// The fetcher panicked; leave the board usable before unwinding.
		b.mu.Lock()
		b.finishLocked(Result{State: FetchError, Code: code, Message: msgFetchFailed})
		b.mu.Unlock()
	}()

	groups, err := b.fetcher.FetchDepartures(ctx, code)

	var res Result
	switch {
	case err != nil:
		res = Result{State: FetchError, Code: code, Message: msgFetchFailed + " " + err.Error()}
		b.logger.WithFields(logrus.Fields{
			"crs":   code,
			"error": err,
		}).Warn("departure lookup failed")
	case len(groups) == 0:
		res = Result{State: Empty, Code: code, Message: MsgNoDepartures}
	default:
		res = Result{State: Success, Code: code, Groups: groups}
	}

	b.mu.Lock()
	b.finishLocked(res)
	finished = true
	b.mu.Unlock()

	b.logger.WithFields(logrus.Fields{
		"crs":    code,
		"state":  res.State.String(),
		"groups": len(res.Groups),
	}).Debug("departure lookup finished")

	return res, nil
}

func (b *Board) finishLocked(res Result) {
	b.state = res.State
	b.last = res
}
