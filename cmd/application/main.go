package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"shopkeeper/config"
	"shopkeeper/internal/app"
	"shopkeeper/internal/storage"
	"shopkeeper/metrics"
	"shopkeeper/pkg/dbconnect/postgres"
	"shopkeeper/pkg/logger"
	"syscall"
	"time"
)

const usage = `Usage:  shopkeeper [-config <file>] <command> [-e|-env <store>] [path]

Commands:
    envs        Display and test store credentials
    sync        Load a remote store and compare it with the local workspace
    inspect     Print one remote record, e.g. 'inspect -e testing pages/about-us'
`

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.DefaultConfigName, "path to the configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	command := flag.Arg(0)
	if command != "envs" && command != "sync" && command != "inspect" {
		if command != "" {
			fmt.Fprintf(os.Stderr, "Command not found: %s\n", command)
		}
		flag.Usage()
		return 1
	}

	cmd := flag.NewFlagSet(command, flag.ContinueOnError)
	env := cmd.String("env", "", "comma separated store names")
	cmd.StringVar(env, "e", "", "shorthand for -env")
	if err := cmd.Parse(flag.Args()[1:]); err != nil {
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "No valid ShopKeeper configuration was found (%s)\n", *configPath)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	zl, err := logger.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer zl.Sync()
	log := logger.NewLogger(zl, "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("metrics server stopped: %v", err)
			}
		}()
		defer srv.Close()
	}

	var opts []app.Option
	if command == "sync" && cfg.Snapshot.Enabled {
		pg := postgres.NewPgConnector(config.GetPostgresConfig(cfg.Snapshot.Postgres), log)
		repo, err := storage.Prepare(pg, log)
		if err != nil {
			log.Error("Snapshot storage unavailable: %v", err)
			return 1
		}
		defer pg.Close()
		opts = append(opts, app.WithSnapshots(repo))
	}
	a := app.New(cfg, log, m, opts...)

	switch command {
	case "envs":
		failed := 0
		for _, status := range a.Envs(ctx) {
			if !status.OK() {
				failed++
			}
		}
		if failed > 0 {
			return 2
		}
	case "sync":
		report, err := a.Sync(ctx, *env)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		log.Log("Sync %s of '%s' finished after %d requests", report.RunID, report.Store, m.Counters.Requests.Load())
	case "inspect":
		if _, err := a.Inspect(ctx, *env, cmd.Arg(0)); err != nil {
			log.Error("%v", err)
			return 1
		}
	}
	return 0
}
