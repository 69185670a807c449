package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/warung-pos/engine/internal/config"
)

func main() {
	skipMigrate := flag.Bool("skip-migrate", false, "skip running migrations before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using environment")
	}
	cfg := config.Load()

	if !*skipMigrate {
		if err := runMigrations(cfg); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Info("migrations up to date")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	log.Info("connected to database")

	// Seed in a transaction: either the whole demo menu lands or none of it.
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := seedUnits(ctx, tx); err != nil {
		log.Fatalf("seed units: %v", err)
	}
	if err := seedMenu(ctx, tx); err != nil {
		log.Fatalf("seed menu: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}
	log.Info("seed completed successfully")
}

func runMigrations(cfg *config.Config) error {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("new: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("up: %w", err)
	}
	return nil
}

// seedUnits creates gram/kilogram with a kg→g factor if they don't exist.
func seedUnits(ctx context.Context, tx pgx.Tx) error {
	var existing uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM units WHERE name = 'gram' LIMIT 1`).Scan(&existing)
	if err == nil {
		log.Info("units already seeded, skipping")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check units: %w", err)
	}

	var gramID, kiloID uuid.UUID
	if err := tx.QueryRow(ctx,
		`INSERT INTO units (name, abbreviation) VALUES ('gram', 'g') RETURNING id`,
	).Scan(&gramID); err != nil {
		return fmt.Errorf("insert gram: %w", err)
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO units (name, abbreviation) VALUES ('kilogram', 'kg') RETURNING id`,
	).Scan(&kiloID); err != nil {
		return fmt.Errorf("insert kilogram: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO unit_conversions (from_unit_id, to_unit_id, factor) VALUES ($1, $2, 1000)`,
		kiloID, gramID,
	); err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO ingredients (name, unit_id, stock_quantity)
		VALUES ('rice', $1, 25000), ('chicken', $1, 8000)
	`, gramID); err != nil {
		return fmt.Errorf("insert ingredients: %w", err)
	}

	log.WithFields(log.Fields{"gram": gramID, "kilogram": kiloID}).Info("seeded units")
	return nil
}

// seedMenu creates a demo menu: a plain variant with an addon group and a
// combo variant with a two-slot option group.
func seedMenu(ctx context.Context, tx pgx.Tx) error {
	var existing uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM variants WHERE name = 'Nasi Bakar Ayam' LIMIT 1`).Scan(&existing)
	if err == nil {
		log.Info("menu already seeded, skipping")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check menu: %w", err)
	}

	var mainID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO variants (name, price, cost_price, stock_quantity, manage_stock, is_combo)
		VALUES ('Nasi Bakar Ayam', 25000, 11000, 40, true, false)
		RETURNING id
	`).Scan(&mainID); err != nil {
		return fmt.Errorf("insert main variant: %w", err)
	}

	var addonGroupID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO addon_groups (variant_id, name, min_options, max_options, is_required, sort_order)
		VALUES ($1, 'Sambal Level', 1, 1, true, 0)
		RETURNING id
	`, mainID).Scan(&addonGroupID); err != nil {
		return fmt.Errorf("insert addon group: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO addon_options (group_id, name, additional_price, sort_order)
		VALUES ($1, 'Sambal Bawang', 0, 0), ($1, 'Sambal Matah', 2000, 1)
	`, addonGroupID); err != nil {
		return fmt.Errorf("insert addon options: %w", err)
	}

	var drinkID, teaID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO variants (name, price, cost_price) VALUES ('Es Teh', 5000, 1500) RETURNING id
	`).Scan(&teaID); err != nil {
		return fmt.Errorf("insert tea: %w", err)
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO variants (name, price, cost_price) VALUES ('Es Jeruk', 7000, 2500) RETURNING id
	`).Scan(&drinkID); err != nil {
		return fmt.Errorf("insert juice: %w", err)
	}

	var comboID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO variants (name, price, cost_price, is_combo)
		VALUES ('Paket Hemat', 30000, 14000, true)
		RETURNING id
	`).Scan(&comboID); err != nil {
		return fmt.Errorf("insert combo: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO combo_items (combo_id, variant_id, quantity, sort_order)
		VALUES ($1, $2, 1, 0)
	`, comboID, mainID); err != nil {
		return fmt.Errorf("insert combo item: %w", err)
	}

	var comboGroupID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO combo_option_groups (variant_id, name, min_options, max_options, is_required, sort_order)
		VALUES ($1, 'Pilih Minuman', 1, 1, true, 0)
		RETURNING id
	`, comboID).Scan(&comboGroupID); err != nil {
		return fmt.Errorf("insert combo option group: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO combo_option_items (group_id, variant_id, additional_price, quantity, sort_order)
		VALUES ($1, $2, 0, 1, 0), ($1, $3, 2000, 1, 1)
	`, comboGroupID, teaID, drinkID); err != nil {
		return fmt.Errorf("insert combo option items: %w", err)
	}

	log.WithFields(log.Fields{"main": mainID, "combo": comboID}).Info("seeded demo menu")
	return nil
}
