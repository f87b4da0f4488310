package loader

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rumbo-transit/rumbo_core/internal/models"
)

const seedBatchSize = 1000

// LoadNetwork reads the full network definition from PostgreSQL.
func LoadNetwork(ctx context.Context, db *pgxpool.Pool) (models.NetworkConfig, error) {
	var cfg models.NetworkConfig

	stationRows, err := db.Query(ctx, `
		SELECT name, lat, lon
		FROM station
		ORDER BY name
	`)
	if err != nil {
		return cfg, fmt.Errorf("failed to load stations: %w", err)
	}
	defer stationRows.Close()

	for stationRows.Next() {
		var s models.Station
		if err := stationRows.Scan(&s.Name, &s.Lat, &s.Lon); err != nil {
			return cfg, fmt.Errorf("failed to scan station: %w", err)
		}
		cfg.Stations = append(cfg.Stations, s)
	}
	if err := stationRows.Err(); err != nil {
		return cfg, fmt.Errorf("failed to read stations: %w", err)
	}

	linkRows, err := db.Query(ctx, `
		SELECT station_a, station_b, line, time_minutes
		FROM link
		ORDER BY id
	`)
	if err != nil {
		return cfg, fmt.Errorf("failed to load links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var l models.Link
		if err := linkRows.Scan(&l.From, &l.To, &l.Line, &l.Time); err != nil {
			return cfg, fmt.Errorf("failed to scan link: %w", err)
		}
		cfg.Links = append(cfg.Links, l)
	}
	if err := linkRows.Err(); err != nil {
		return cfg, fmt.Errorf("failed to read links: %w", err)
	}

	err = db.QueryRow(ctx, `
		SELECT value::INT
		FROM network_setting
		WHERE key = 'transfer_penalty'
	`).Scan(&cfg.TransferPenalty)
	if err != nil {
		return cfg, fmt.Errorf("failed to load transfer penalty: %w", err)
	}

	log.Printf("Loaded network from database (%d stations, %d links, penalty %d min)",
		len(cfg.Stations), len(cfg.Links), cfg.TransferPenalty)

	return cfg, nil
}

// SeedNetwork replaces the stored network definition with cfg. The schema
// is created when missing; existing rows are truncated first.
func SeedNetwork(ctx context.Context, db *pgxpool.Pool, cfg models.NetworkConfig) error {
	if err := ensureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE link, station, network_setting"); err != nil {
		return fmt.Errorf("failed to clear existing network: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range cfg.Stations {
		batch.Queue(`
			INSERT INTO station (name, lat, lon)
			VALUES ($1, $2, $3)
		`, s.Name, s.Lat, s.Lon)

		if batch.Len() >= seedBatchSize {
			if err := executeBatch(ctx, db, batch); err != nil {
				return err
			}
			batch = &pgx.Batch{}
		}
	}
	if batch.Len() > 0 {
		if err := executeBatch(ctx, db, batch); err != nil {
			return err
		}
	}

	batch = &pgx.Batch{}
	for _, l := range cfg.Links {
		batch.Queue(`
			INSERT INTO link (station_a, station_b, line, time_minutes)
			VALUES ($1, $2, $3, $4)
		`, l.From, l.To, l.Line, l.Time)

		if batch.Len() >= seedBatchSize {
			if err := executeBatch(ctx, db, batch); err != nil {
				return err
			}
			batch = &pgx.Batch{}
		}
	}
	if batch.Len() > 0 {
		if err := executeBatch(ctx, db, batch); err != nil {
			return err
		}
	}

	_, err := db.Exec(ctx, `
		INSERT INTO network_setting (key, value)
		VALUES ('transfer_penalty', $1)
	`, fmt.Sprintf("%d", cfg.TransferPenalty))
	if err != nil {
		return fmt.Errorf("failed to store transfer penalty: %w", err)
	}

	log.Printf("Seeded network (%d stations, %d links)", len(cfg.Stations), len(cfg.Links))
	return nil
}

// ensureSchema creates the network tables when they do not exist yet.
func ensureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS station (
			name TEXT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS link (
			id SERIAL PRIMARY KEY,
			station_a TEXT NOT NULL REFERENCES station(name),
			station_b TEXT NOT NULL REFERENCES station(name),
			line TEXT NOT NULL,
			time_minutes INT NOT NULL CHECK (time_minutes >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS network_setting (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// executeBatch executes a batch of queries.
func executeBatch(ctx context.Context, db *pgxpool.Pool, batch *pgx.Batch) error {
	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch execution failed at query %d: %w", i, err)
		}
	}

	return nil
}
