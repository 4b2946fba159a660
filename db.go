package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func openDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database_url is not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// ensureSchema creates the tables on first run. Idempotent.
func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_online TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			display_name TEXT NOT NULL DEFAULT '',
			age INT NOT NULL DEFAULT 0,
			occupation TEXT NOT NULL DEFAULT '',
			locations JSONB NOT NULL DEFAULT '[]',
			budget_min INT NOT NULL DEFAULT 0,
			budget_max INT NOT NULL DEFAULT 0,
			move_in_start DATE,
			move_in_end DATE,
			housing_type TEXT NOT NULL DEFAULT '',
			living_space TEXT NOT NULL DEFAULT '',
			cleanliness TEXT NOT NULL DEFAULT '',
			cleaning_frequency TEXT NOT NULL DEFAULT '',
			smokes BOOLEAN NOT NULL DEFAULT FALSE,
			tolerates_smokers BOOLEAN NOT NULL DEFAULT FALSE,
			has_pets BOOLEAN NOT NULL DEFAULT FALSE,
			pet_policy TEXT NOT NULL DEFAULT '',
			diet TEXT NOT NULL DEFAULT '',
			cooking TEXT NOT NULL DEFAULT '',
			work_location TEXT NOT NULL DEFAULT '',
			work_schedule TEXT NOT NULL DEFAULT '',
			hobbies JSONB NOT NULL DEFAULT '[]',
			desired_traits JSONB NOT NULL DEFAULT '[]',
			gender TEXT NOT NULL DEFAULT '',
			accepted_genders JSONB NOT NULL DEFAULT '[]',
			stay_duration TEXT NOT NULL DEFAULT '',
			lease_term TEXT NOT NULL DEFAULT '',
			is_complete BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS dismissed_matches (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			dismissed_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, dismissed_user_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
