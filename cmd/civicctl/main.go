// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

// Command civicctl is the operator CLI for the civic records registry.
//
// It connects to MongoDB (and Redis, when configured), ensures the unique
// registration indexes exist, and exposes one subcommand per registry
// action, e.g.:
//
//	civicctl create_birth '{"registration_no":"B-2026-001","name":"Asha Rao","dob":"2026-01-15"}'
//	civicctl get_birth B-2026-001
//	civicctl list_births --limit 20
//	civicctl update_death D-104 '{"cause":"cardiac arrest"}'
//
// Domain failures (validation, duplicates, missing records) are reported as
// one-line errors with a non-zero exit code, never as stack traces.
package main

import (
	"context"
	"log/slog"
	"os"

	redisdrv "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/mohansharma/civicledger/internal/platform/config"
	"github.com/mohansharma/civicledger/internal/platform/constants"
	platmongo "github.com/mohansharma/civicledger/internal/platform/mongo"
	platredis "github.com/mohansharma/civicledger/internal/platform/redis"
	"github.com/mohansharma/civicledger/internal/records"
)

// Shared state wired once in rootCmd.PersistentPreRunE and torn down in
// PersistentPostRun. Subcommands only ever touch svc.
var (
	log         *slog.Logger
	mongoClient *mongodrv.Client
	redisClient *redisdrv.Client
	svc         *records.Service

	// listLimit is the --limit flag shared by the list/search subcommands.
	listLimit int64
)

var rootCmd = &cobra.Command{
	Use:               "civicctl",
	Short:             "Manage birth and death records in the civic registry",
	Version:           constants.AppVersion,
	SilenceUsage:      true,
	PersistentPreRunE: setupRegistry,
	PersistentPostRun: teardownRegistry,
}

// setupRegistry connects to the stores and prepares the records service.
//
// Index bootstrap runs on every invocation; CreateMany is idempotent so
// repeated runs are cheap and a fresh database is usable immediately.
func setupRegistry(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}
	// Logs go to stderr so command output on stdout stays machine-readable.
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	mongoClient, err = platmongo.NewClient(ctx, cfg.MongoURI, log)
	if err != nil {
		return err
	}

	var cache *records.Cache
	if cfg.CacheEnabled() {
		redisClient, err = platredis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			// The cache is an optimization. A dead Redis must not block
			// registry writes, so degrade to uncached operation.
			log.Warn("redis_unavailable_cache_disabled", slog.String("error", err.Error()))
			redisClient = nil
		} else {
			cache = records.NewCache(redisClient)
		}
	}

	db := mongoClient.Database(cfg.DBName)
	svc = records.NewService(
		records.NewBirthRepository(db),
		records.NewDeathRepository(db),
		cache,
		log,
	)

	return svc.EnsureIndexes(ctx)
}

func teardownRegistry(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("redis_close_failed", slog.String("error", err.Error()))
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Warn("mongo_disconnect_failed", slog.String("error", err.Error()))
		}
	}
}

func main() {
	rootCmd.AddCommand(
		createBirthCmd, getBirthCmd, listBirthsCmd, searchBirthsCmd, updateBirthCmd, deleteBirthCmd,
		createDeathCmd, getDeathCmd, listDeathsCmd, searchDeathsCmd, updateDeathCmd, deleteDeathCmd,
	)

	for _, cmd := range []*cobra.Command{listBirthsCmd, searchBirthsCmd, listDeathsCmd, searchDeathsCmd} {
		cmd.Flags().Int64Var(&listLimit, "limit", constants.DefaultListLimit, "maximum number of records to return")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
