// Package main is the entry point for the reading tracker API server.
// It wires together configuration, the book store, the identity provider
// and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aoideee/booktracker/internal/auth"
	"github.com/aoideee/booktracker/internal/config"
	"github.com/aoideee/booktracker/internal/data"

	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.
)

// appVersion is the current version of the API, shown in logs and /healthz.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config   config.Config
	logger   *slog.Logger
	models   data.Models
	verifier auth.Verifier
}

func main() {
	var (
		configPath string
		port       int
		env        string
		dsn        string
	)

	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.IntVar(&port, "port", 4000, "Server port")
	flag.StringVar(&env, "env", "development", "Environment(development|staging|production)")
	flag.StringVar(&dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Flags given explicitly on the command line win over every other source.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = port
		case "env":
			cfg.Server.Environment = env
		case "db-dsn":
			cfg.DB.DSN = dsn
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Logging)

	models, closeStore, err := openStore(cfg.DB)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer closeStore()

	logger.Info("book store ready", "driver", cfg.DB.Driver)

	verifier, err := newVerifier(cfg.Identity)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	app := &applicationDependencies{
		config:   *cfg,
		logger:   logger,
		models:   models,
		verifier: verifier,
	}

	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// newLogger builds the slog logger described by cfg. Unknown levels fall back to info.
func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newVerifier selects the identity provider backend.
func newVerifier(cfg config.IdentityConfig) (auth.Verifier, error) {
	switch cfg.Mode {
	case config.IdentityJWT:
		return auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTAudience)
	default:
		return auth.NewGoTrueClient(cfg.URL, cfg.ServiceKey, cfg.Timeout)
	}
}

// openStore opens the configured book store and returns a function that
// releases it.
func openStore(cfg config.DBConfig) (data.Models, func() error, error) {
	if cfg.Driver == config.DriverMemory {
		return data.NewModels(data.NewMemoryBookModel()), func() error { return nil }, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return data.Models{}, nil, err
	}

	if cfg.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := data.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return data.Models{}, nil, err
		}
	}

	return data.NewPostgresModels(db), db.Close, nil
}

// openDB opens a PostgreSQL connection pool and pings it with a 5-second
// timeout to confirm it is reachable.
func openDB(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
