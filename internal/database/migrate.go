package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is kept to the subset of DDL that MySQL and SQLite both accept so
// the same statements back production and the in-memory test store. Ids are
// assigned by the content pipeline, not by the database; ticket ids are
// UUIDs generated by the service.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id      BIGINT       NOT NULL PRIMARY KEY,
		name    VARCHAR(200) NOT NULL,
		slug    VARCHAR(200) NOT NULL UNIQUE,
		city    VARCHAR(120) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS screenings (
		id         BIGINT        NOT NULL PRIMARY KEY,
		title      VARCHAR(255)  NOT NULL,
		slug       VARCHAR(255)  NOT NULL UNIQUE,
		starts_at  DATETIME      NOT NULL,
		venue_id   BIGINT        NULL REFERENCES venues(id),
		format     VARCHAR(32)   NOT NULL DEFAULT '',
		attendance INT           NOT NULL DEFAULT 0,
		tmdb_id    BIGINT        NULL,
		base_price DECIMAL(10,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		id      BIGINT       NOT NULL PRIMARY KEY,
		name    VARCHAR(200) NOT NULL,
		role    VARCHAR(64)  NOT NULL DEFAULT '',
		bio     TEXT         NULL,
		tmdb_id BIGINT       NULL
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id         BIGINT       NOT NULL PRIMARY KEY,
		email      VARCHAR(255) NOT NULL UNIQUE,
		name       VARCHAR(200) NOT NULL,
		tier       VARCHAR(32)  NOT NULL DEFAULT 'none',
		created_at DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id                CHAR(36)      NOT NULL PRIMARY KEY,
		member_id         BIGINT        NOT NULL REFERENCES members(id),
		screening_id      BIGINT        NOT NULL REFERENCES screenings(id),
		quantity          INT           NOT NULL,
		tier              VARCHAR(32)   NOT NULL,
		unit_base_price   DECIMAL(10,2) NOT NULL,
		discount_percent  INT           NOT NULL,
		total_discount    DECIMAL(10,2) NOT NULL,
		total_price       DECIMAL(10,2) NOT NULL,
		purchase_date     DATETIME      NOT NULL,
		status            VARCHAR(16)   NOT NULL,
		attended          BOOLEAN       NOT NULL DEFAULT FALSE,
		payment_reference VARCHAR(128)  NOT NULL DEFAULT ''
	)`,
}

// Migrate creates any missing tables. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
