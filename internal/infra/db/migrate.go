package db

import "database/sql"

// MigrateUp creates the schema. Statements are idempotent so a restart can
// always run them.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS channel_groups (
    id   SERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS channels (
    id             SERIAL PRIMARY KEY,
    name           TEXT NOT NULL UNIQUE,
    group_id       INTEGER REFERENCES channel_groups(id) ON DELETE SET NULL,
    last_synced_at TIMESTAMPTZ
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS news_items (
    id           SERIAL PRIMARY KEY,
    channel_id   INTEGER NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
    content      TEXT NOT NULL DEFAULT '',
    media_file   TEXT,
    published_at TIMESTAMPTZ NOT NULL,
    external_id  BIGINT NOT NULL,
    UNIQUE (channel_id, external_id)
)`); err != nil {
		return err
	}

	indexes := []string{
		// news listing is always newest-first
		`CREATE INDEX IF NOT EXISTS idx_news_items_published_at ON news_items(published_at DESC)`,
		// per-channel dedup lookups and cascade deletes
		`CREATE INDEX IF NOT EXISTS idx_news_items_channel_id ON news_items(channel_id)`,
		// group-filtered news listing
		`CREATE INDEX IF NOT EXISTS idx_channels_group_id ON channels(group_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
