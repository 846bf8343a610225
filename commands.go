package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/api/huxley"
	"github.com/danpilch/platformboard/internal/board"
	"github.com/danpilch/platformboard/internal/departures"
	"github.com/danpilch/platformboard/internal/notify"
	"github.com/danpilch/platformboard/internal/render"
	"github.com/danpilch/platformboard/internal/server"
	"github.com/danpilch/platformboard/internal/stations"
	"github.com/danpilch/platformboard/internal/watch"
)

type ServeCmd struct {
	Listen string `help:"Address to listen on (overrides config)."`
}

func (c *ServeCmd) Run(a *app) error {
	accessToken := os.Getenv("HUXLEY_ACCESS_TOKEN")
	if accessToken == "" {
		a.logger.Warn("HUXLEY_ACCESS_TOKEN is not set, departure lookups will fail")
	}

	listen := a.cfg.Listen
	if c.Listen != "" {
		listen = c.Listen
	}

	client := huxley.NewClient(a.cfg.Upstream.BaseURL, accessToken, a.cfg.Upstream.Timeout)
	service := departures.NewService(client, a.cfg.Upstream.Rows, a.logger)
	directory := stations.NewDirectory(stations.NewSource(a.cfg.Stations.Source), a.logger)
	srv := server.New(service, directory, a.cfg.CORS.AllowedOrigins, a.logger)

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	a.logger.WithField("upstream", a.cfg.Upstream.BaseURL).Info("starting platformboard")

	if err := srv.Run(ctx, listen); err != nil {
		return fmt.Errorf("serving http: %w", err)
	}

	a.logger.Info("platformboard stopped")
	return nil
}

type BoardCmd struct {
	Station string `arg:"" help:"Station code (e.g. EUS) or a name that matches a single station."`
	Proxy   string `help:"Departures proxy base URL (overrides config)."`
	Push    bool   `help:"Also send the board as a Pushover notification (needs PUSHOVER_TOKEN and PUSHOVER_USER)."`
}

func (c *BoardCmd) Run(a *app) error {
	ctx := context.Background()

	code := resolveStation(ctx, a, c.Station)
	b := board.New(board.NewProxyClient(proxyURL(a, c.Proxy)), a.logger)

	res, err := b.Submit(ctx, code)
	if err != nil {
		return err
	}
	if res.State == board.ValidationError || res.State == board.FetchError {
		return errors.New(res.Message)
	}

	render.Text(os.Stdout, res)

	if c.Push {
		n, err := pushoverNotifier(a)
		if err != nil {
			return err
		}
		return n.SendBoard(res.Code, res.Visible())
	}
	return nil
}

type StationsCmd struct {
	Query string `arg:"" help:"Part of a station name or the start of a code."`
}

func (c *StationsCmd) Run(a *app) error {
	directory := stations.NewDirectory(stations.NewSource(a.cfg.Stations.Source), a.logger)

	matches, err := directory.Suggest(context.Background(), c.Query)
	if err != nil {
		return fmt.Errorf("loading stations: %w", err)
	}

	render.Suggestions(os.Stdout, matches)
	return nil
}

type WatchCmd struct {
	Station  string        `arg:"" help:"Station code (e.g. EUS) or a name that matches a single station."`
	Proxy    string        `help:"Departures proxy base URL (overrides config)."`
	Interval time.Duration `help:"Refresh interval (overrides config)."`
	Notify   bool          `help:"Send Pushover alerts when a departure's status changes."`
}

func (c *WatchCmd) Run(a *app) error {
	ctx, cancel := signalContext(a.logger)
	defer cancel()

	interval := a.cfg.Watch.Interval
	if c.Interval > 0 {
		interval = c.Interval
	}

	var notifier watch.ChangeNotifier
	if c.Notify {
		n, err := pushoverNotifier(a)
		if err != nil {
			return err
		}
		notifier = n
	}

	code := resolveStation(ctx, a, c.Station)
	b := board.New(board.NewProxyClient(proxyURL(a, c.Proxy)), a.logger)

	w := watch.New(b, code, interval, notifier, func(res board.Result) {
		fmt.Fprintf(os.Stdout, "\n[%s]\n", time.Now().Format("15:04:05"))
		render.Text(os.Stdout, res)
	}, a.logger)

	a.logger.WithFields(logrus.Fields{
		"station":  code,
		"interval": interval,
		"notify":   c.Notify,
	}).Info("watching departures")

	w.Start(ctx)
	<-ctx.Done()
	w.Stop()

	return nil
}

// resolveStation maps a station name to its code through the directory. Input
// that cannot be resolved is returned unchanged so the board reports it.
func resolveStation(ctx context.Context, a *app, input string) string {
	if _, ok := departures.NormalizeCRS(input); ok {
		return input
	}

	directory := stations.NewDirectory(stations.NewSource(a.cfg.Stations.Source), a.logger)
	code, err := directory.Resolve(ctx, input)
	if err != nil {
		a.logger.WithField("error", err).Warn("could not resolve station name")
		return input
	}
	return code
}

func proxyURL(a *app, override string) string {
	if override != "" {
		return override
	}
	return a.cfg.ProxyURL
}

func pushoverNotifier(a *app) (*notify.Notifier, error) {
	token := os.Getenv("PUSHOVER_TOKEN")
	user := os.Getenv("PUSHOVER_USER")
	if token == "" || user == "" {
		return nil, errors.New("PUSHOVER_TOKEN and PUSHOVER_USER environment variables are required")
	}
	return notify.NewNotifier(token, user, a.logger), nil
}
