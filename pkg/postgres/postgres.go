package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/samiserrag/denver-songwriters-collective-sub014/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Simplified in-process migrations; swap for a real migration tool when
	// the schema starts changing under load.
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'member',
			password_hash VARCHAR(100) NOT NULL,
			telegram_id VARCHAR(100) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS venues (
			id SERIAL PRIMARY KEY,
			slug VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			address VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			state VARCHAR(50) NOT NULL DEFAULT '',
			zip VARCHAR(20) NOT NULL DEFAULT '',
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			google_maps_url TEXT NOT NULL DEFAULT '',
			website_url TEXT NOT NULL DEFAULT '',
			manager_id INTEGER REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			slug VARCHAR(255) UNIQUE NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			event_type VARCHAR(30) NOT NULL DEFAULT 'open_mic',
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			host_id INTEGER NOT NULL REFERENCES users(id),
			event_date VARCHAR(10),
			day_of_week VARCHAR(10) NOT NULL DEFAULT '',
			start_time TIME,
			end_time TIME,
			recurrence_rule VARCHAR(100) NOT NULL DEFAULT '',
			series_id VARCHAR(100),
			venue_id INTEGER REFERENCES venues(id),
			custom_address TEXT,
			custom_lat DOUBLE PRECISION,
			custom_lng DOUBLE PRECISION,
			is_online BOOLEAN NOT NULL DEFAULT FALSE,
			capacity INTEGER NOT NULL DEFAULT 0,
			has_timeslots BOOLEAN NOT NULL DEFAULT FALSE,
			signup_time TIME,
			source VARCHAR(100) NOT NULL DEFAULT '',
			last_verified_at TIMESTAMP,
			verified_by INTEGER REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS occurrence_overrides (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			date_key VARCHAR(10) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'normal',
			override_start_time TIME,
			cover_image_url TEXT,
			notes TEXT,
			signup_time TIME,
			has_timeslots BOOLEAN,
			venue_id INTEGER REFERENCES venues(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(event_id, date_key)
		)`,

		`CREATE TABLE IF NOT EXISTS event_slots (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			date_key VARCHAR(10) NOT NULL,
			slot_index INTEGER NOT NULL,
			start_time TIME,
			end_time TIME,
			performer_id INTEGER REFERENCES users(id),
			claimed_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(event_id, date_key, slot_index)
		)`,

		`CREATE TABLE IF NOT EXISTS rsvps (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id),
			status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
			waitlist_position INTEGER,
			offer_expires_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(event_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS host_requests (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			message TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			reviewed_by INTEGER REFERENCES users(id),
			reviewed_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS host_invites (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			token VARCHAR(64) UNIQUE NOT NULL,
			email VARCHAR(255) NOT NULL,
			created_by INTEGER NOT NULL REFERENCES users(id),
			expires_at TIMESTAMP NOT NULL,
			accepted_at TIMESTAMP,
			accepted_by INTEGER REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			category VARCHAR(30) NOT NULL,
			title VARCHAR(255) NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			event_id INTEGER REFERENCES events(id) ON DELETE SET NULL,
			read_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS notification_preferences (
			user_id INTEGER PRIMARY KEY REFERENCES users(id),
			prefs JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)`,
		`CREATE INDEX IF NOT EXISTS idx_events_host_id ON events(host_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_venue_id ON events(venue_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_series_id ON events(series_id)`,
		`CREATE INDEX IF NOT EXISTS idx_overrides_event_date ON occurrence_overrides(event_id, date_key)`,
		`CREATE INDEX IF NOT EXISTS idx_slots_event_date ON event_slots(event_id, date_key)`,
		`CREATE INDEX IF NOT EXISTS idx_rsvps_event_status ON rsvps(event_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_rsvps_user_id ON rsvps(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rsvps_offer_expires_at ON rsvps(offer_expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
