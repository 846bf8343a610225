package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/config"
)

var CLI struct {
	Config   string `help:"Path to config file" default:"config.yaml" type:"path"`
	LogLevel string `help:"Log level" default:"info" enum:"debug,info,warn,error"`

	Serve    ServeCmd    `cmd:"" help:"Run the departures proxy and the web board."`
	Board    BoardCmd    `cmd:"" help:"Show the next departures from a station, grouped by platform."`
	Stations StationsCmd `cmd:"" help:"Search the station directory."`
	Watch    WatchCmd    `cmd:"" help:"Refresh a station's departures on an interval."`
}

type app struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("platformboard"),
		kong.Description("Live UK railway departures grouped by platform."),
		kong.UsageOnError(),
	)

	// Setup structured logging with logfmt
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	level, err := logrus.ParseLevel(CLI.LogLevel)
	if err != nil {
		logger.WithField("error", err).Fatal("invalid log level")
	}
	logger.SetLevel(level)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		logger.WithField("error", err).Fatal("failed to load config")
	}

	ctx.FatalIfErrorf(ctx.Run(&app{cfg: cfg, logger: logger}))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(logger *logrus.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.WithField("signal", sig).Info("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
