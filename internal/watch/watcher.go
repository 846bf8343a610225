package watch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/board"
	"github.com/danpilch/platformboard/internal/departures"
)

// ChangeNotifier is told about departures whose status changed between refreshes.
type ChangeNotifier interface {
	SendStatusChange(code string, dep departures.Departure, old string) error
}

// Watcher refreshes one station's board on an interval.
type Watcher struct {
	board    *board.Board
	station  string
	interval time.Duration
	notifier ChangeNotifier
	onResult func(board.Result)
	logger   *logrus.Logger

	mu       sync.Mutex
	statuses map[string]string
	primed   bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher. notifier and onResult may be nil.
func New(b *board.Board, station string, interval time.Duration, notifier ChangeNotifier, onResult func(board.Result), logger *logrus.Logger) *Watcher {
	return &Watcher{
		board:    b,
		station:  station,
		interval: interval,
		notifier: notifier,
		onResult: onResult,
		logger:   logger,
		statuses: make(map[string]string),
		stopCh:   make(chan struct{}),
	}
}

func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped: context cancelled")
			return
		case <-w.stopCh:
			w.logger.Info("watcher stopped: stop signal received")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh runs one lookup, reports the result and notifies status changes.
func (w *Watcher) Refresh(ctx context.Context) {
	res, err := w.board.Submit(ctx, w.station)
	if errors.Is(err, board.ErrInFlight) {
		w.logger.WithField("station", w.station).Debug("previous refresh still loading, skipping")
		return
	}

	if w.onResult != nil {
		w.onResult(res)
	}

	if res.State != board.Success && res.State != board.Empty {
		return
	}

	for _, ch := range w.diff(res) {
		w.logger.WithFields(logrus.Fields{
			"crs":         res.Code,
			"time":        ch.dep.Time,
			"destination": ch.dep.Destination,
			"old_status":  ch.old,
			"new_status":  ch.dep.Status,
		}).Warn("departure status changed")

		if w.notifier == nil {
			continue
		}
		if err := w.notifier.SendStatusChange(res.Code, ch.dep, ch.old); err != nil {
			w.logger.WithField("error", err).Error("failed to send status change")
		}
	}
}

type change struct {
	dep departures.Departure
	old string
}

// diff records the statuses in res and returns departures whose status differs
// from the previous refresh. The first refresh only primes the state.
func (w *Watcher) diff(res board.Result) []change {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := make(map[string]string)
	var changes []change

	for _, g := range res.Groups {
		for _, d := range g.Departures {
			key := d.Time + "|" + d.Destination
			current[key] = d.Status
			if !w.primed {
				continue
			}
			if old, seen := w.statuses[key]; seen && old != d.Status {
				changes = append(changes, change{dep: d, old: old})
			}
		}
	}

	w.statuses = current
	w.primed = true
	return changes
}
