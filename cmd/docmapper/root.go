package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docmapper/internal/config"
	"docmapper/internal/engine"
	"docmapper/internal/logging"
	"docmapper/internal/store"
	"docmapper/internal/store/memory"
	"docmapper/internal/store/redis"
	"docmapper/internal/store/sqlite"
)

// app carries what every command needs once PersistentPreRunE has run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	verbose    bool
	storeName  string
	sqlitePath string
	redisAddr  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "docmapper",
		Short: "Apply per-client mapping rules to JSON documents",
		Long: `docmapper reshapes JSON documents with ordered, per-client mapping rules.

Each rule reads a dotted source path, applies a transform (copy, toString,
toBool, toUpperCase, toLowerCase, capitalize, formatDate, mapGender or an
expression) and writes the result to a destination path. Every rule reports
one outcome: applied, skipped or failed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.storeName, "store", "", "rule store backend: memory, sqlite or redis (default from DOCMAPPER_STORE)")
	flags.StringVar(&a.sqlitePath, "sqlite-path", "", "sqlite database file (default from DOCMAPPER_SQLITE_PATH)")
	flags.StringVar(&a.redisAddr, "redis-addr", "", "redis address (default from DOCMAPPER_REDIS_ADDR)")

	root.AddCommand(
		newTransformCmd(a),
		newValidateCmd(a),
		newDescribeCmd(a),
		newClientCmd(a),
		newRuleCmd(a),
		newSuggestCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("store") {
		cfg.Store = a.storeName
	}

	if cmd.Flags().Changed("sqlite-path") {
		cfg.SQLitePath = a.sqlitePath
	}

	if cmd.Flags().Changed("redis-addr") {
		cfg.RedisAddr = a.redisAddr
	}

	if a.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg

	if a.logger == nil {
		if a.logger, err = logging.New(cfg.LogLevel); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) engine() (*engine.Engine, error) {
	clock, err := a.cfg.Clock()
	if err != nil {
		return nil, err
	}

	return engine.New(
		engine.WithLogger(a.logger),
		engine.WithClock(clock),
		engine.WithConcurrency(a.cfg.Concurrency),
	), nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	a.logger.Debug("opening store", zap.String("backend", a.cfg.Store))

	switch a.cfg.Store {
	case config.StoreSQLite:
		return sqlite.Open(a.cfg.SQLitePath)
	case config.StoreRedis:
		client := goredis.NewClient(&goredis.Options{Addr: a.cfg.RedisAddr, DB: a.cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}

		return redis.New(redis.Config{Client: client, KeyPrefix: a.cfg.RedisPrefix})
	default:
		return memory.New(), nil
	}
}
