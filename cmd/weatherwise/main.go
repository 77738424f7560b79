package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/namefreezers/weatherwise/internal/client"
	"github.com/namefreezers/weatherwise/internal/config"
	"github.com/namefreezers/weatherwise/internal/prefs"
	"github.com/namefreezers/weatherwise/internal/repository"
	"github.com/namefreezers/weatherwise/internal/viewer"
	"github.com/namefreezers/weatherwise/pkg/graceful"
)

const usage = `Usage: weatherwise [flags] [command [args]]

Without a command, commands are read from stdin one per line.

Commands:
  search <city>                 look up the weather for a city
  locate --lat <lat> --lon <lon> look up the weather at a position
  refresh                       repeat the last search
  fav ls | add <city> | rm <city> | load <city>
  theme [toggle]                show or toggle the theme
  export [--dir <dir>]          write the last result to <city>.json
  help | quit

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 2
	}

	fs := pflag.NewFlagSet("weatherwise", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "WeatherWise API base URL")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	fs.StringVar(&cfg.PrefsBackend, "backend", cfg.PrefsBackend, "preference store: sqlite, postgres or redis")
	fs.StringVar(&cfg.PrefsDSN, "dsn", cfg.PrefsDSN, "SQLite path or Postgres DSN of the preference store")
	fs.StringVarP(&cfg.Profile, "profile", "p", cfg.Profile, "preference profile")
	verbose := fs.BoolP("verbose", "v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "cannot initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, cancel := graceful.Context(context.Background(), logger)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "preference store: %v\n", err)
		return 1
	}
	defer closeStore()

	c := &cli{out: stdout, exportDir: "."}
	ctrl, err := viewer.NewController(ctx,
		client.New(cfg.ServerURL, cfg.Timeout, logger),
		store,
		logger,
		viewer.WithOnChange(c.progress),
	)
	if err != nil {
		fmt.Fprintf(stderr, "cannot load preferences: %v\n", err)
		return 1
	}
	c.ctrl = ctrl

	if fs.NArg() > 0 {
		if err := c.exec(ctx, fs.Args()); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if ctrl.State().State == viewer.Error {
			return 1
		}
		return 0
	}
	return c.repl(ctx, stdin, stderr)
}

// newLogger logs warnings only, unless verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func openStore(ctx context.Context, cfg *config.ClientConfig, logger *zap.Logger) (prefs.Store, func(), error) {
	switch cfg.PrefsBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return prefs.NewRedisStore(rdb, cfg.Profile), func() { rdb.Close() }, nil

	case "postgres", "sqlite":
		open := repository.OpenSQLite
		if cfg.PrefsBackend == "postgres" {
			open = repository.OpenDB
		}
		db, err := open(cfg.PrefsDSN)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, nil, err
		}
		repo := repository.NewPreferenceRepository(db, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return prefs.NewSQLStore(repo, cfg.Profile), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.PrefsBackend)
	}
}
