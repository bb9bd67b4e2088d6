package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/appscope/pkg/config"
	"github.com/umputun/appscope/pkg/llm"
	"github.com/umputun/appscope/pkg/repository"
	"github.com/umputun/appscope/pkg/scheduler"
	"github.com/umputun/appscope/pkg/session"
	"github.com/umputun/appscope/server"
)

const defaultConfigPath = "appscope.yml"

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"appscope.yml" description:"configuration file, defaults are used if the default file is missing"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides server.listen"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	SetupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting appscope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires configuration, the optional run journal, the analysis store and the http server,
// and blocks until ctx is done or the server fails
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	if key := os.Getenv(cfg.LLM.APIKeyEnv); key != "" {
		SetupLog(opts.Debug, opts.NoColor, key)
	} else {
		log.Printf("[WARN] %s is not set, analyses will fail until it is", cfg.LLM.APIKeyEnv)
	}
	log.Printf("[INFO] using %s model %s, web search %v", cfg.LLM.Provider, cfg.LLM.Model, !cfg.LLM.DisableWebSearch)

	// interfaces stay nil when the journal is disabled
	var (
		repos    *repository.Repositories
		recorder session.Recorder
		runs     server.RunLister
	)
	if cfg.Journal.Enabled {
		repos, err = repository.NewRepositories(ctx, repository.Config{DSN: cfg.Journal.DSN})
		if err != nil {
			return fmt.Errorf("failed to open run journal: %w", err)
		}
		defer func() {
			if err := repos.Close(); err != nil {
				log.Printf("[WARN] failed to close run journal: %v", err)
			}
		}()
		recorder, runs = repos.Run, repos.Run
		log.Printf("[INFO] run journal enabled, retention %v", cfg.Journal.Retention)
	}

	store := session.NewStore(llm.NewAnalyzer(cfg.LLM), session.Options{Timeout: cfg.LLM.Timeout, Recorder: recorder})
	defer store.Close()

	srv, err := server.New(cfg, store, runs, revision, opts.Debug)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	if repos != nil {
		sched := scheduler.NewScheduler(repos.Run, scheduler.Config{
			Retention:       cfg.Journal.Retention,
			CleanupInterval: cfg.Journal.CleanupInterval,
		})
		g.Go(func() error {
			sched.Start(gctx)
			<-gctx.Done()
			sched.Stop()
			return nil
		})
	}

	return g.Wait()
}

// loadConfig reads the config file, a missing default file means all defaults
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			log.Printf("[INFO] %s not found, using default configuration", path)
			return config.Default()
		}
	}
	return config.Load(path)
}

// SetupLog configures lgr for both the stdlib logger and lgr itself. Secrets are masked in all output.
func SetupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
