package database

import (
	"context"
	"fmt"

	"hospital-locator/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Store owns the MongoDB client for the lifetime of the process
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect opens a pooled MongoDB client and verifies it with a ping.
// The returned Store is shared by every repository.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(cfg.Mongo.ConnectTimeout).
		SetServerSelectionTimeout(cfg.Mongo.ServerSelectionTimeout).
		SetMaxPoolSize(100).
		SetMinPoolSize(0).
		SetRetryWrites(false).
		SetRetryReads(false)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Successfully connected to MongoDB",
		zap.String("database", cfg.Mongo.Database),
	)

	return &Store{
		client: client,
		db:     client.Database(cfg.Mongo.Database),
		logger: logger,
	}, nil
}

// Database returns the handle repositories are built from. A nil Store
// yields a nil database, which repositories report as unavailable.
func (s *Store) Database() *mongo.Database {
	if s == nil {
		return nil
	}
	return s.db
}

// Ping reports whether the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("database not connected")
	}
	return s.client.Ping(ctx, readpref.Primary())
}

// Close releases the client and its pool
func (s *Store) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	s.logger.Info("MongoDB connection closed")
	return nil
}
