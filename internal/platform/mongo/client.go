// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

/*
Package mongo provides a managed client for the civic records document store.

It owns connection construction only; collection access and index bootstrap
belong to the records storage gateway.

Core Responsibilities:

  - Connectivity: Parses the URI and verifies the server with a startup ping.
  - Timeouts: Applies opinionated connect/operation deadlines.
  - Safety: Connection pooling and retry behavior come from the driver.
*/
package mongo

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Opinionated default timeouts for document store operations.
const (
	connectTimeout = 5 * time.Second
	pingTimeout    = 3 * time.Second
	opTimeout      = 10 * time.Second
)

// NewClient connects to MongoDB and verifies the connection with a ping.
//
// # Parameters
//   - context: Context for the initial connect and ping.
//   - mongoURI: Connection URI (e.g. mongodb://localhost:27017).
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, mongoURI string, logger *slog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(connectTimeout).
		SetTimeout(opTimeout)

	client, err := mongo.Connect(context, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to connect: %w", err)
	}

	// Verify the server is actually reachable before handing the client out.
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context)
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	logger.Info("mongo_connected")

	return client, nil
}

// Ping verifies document store connectivity for readiness probes.
func Ping(context stdctx.Context, client *mongo.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx, readpref.Primary())
}
