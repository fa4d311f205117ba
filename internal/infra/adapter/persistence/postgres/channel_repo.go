package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"telenews/internal/domain/entity"
	"telenews/internal/repository"
)

type ChannelRepo struct{ db *sql.DB }

func NewChannelRepo(db *sql.DB) repository.ChannelRepository {
	return &ChannelRepo{db: db}
}

func scanChannel(s interface{ Scan(...any) error }) (*entity.Channel, error) {
	var ch entity.Channel
	if err := s.Scan(&ch.ID, &ch.Name, &ch.GroupID, &ch.LastSyncedAt); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (repo *ChannelRepo) Get(ctx context.Context, id int64) (*entity.Channel, error) {
	const query = `
SELECT id, name, group_id, last_synced_at
FROM channels
WHERE id = $1
LIMIT 1`
	ch, err := scanChannel(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return ch, nil
}

func (repo *ChannelRepo) GetByName(ctx context.Context, name string) (*entity.Channel, error) {
	const query = `
SELECT id, name, group_id, last_synced_at
FROM channels
WHERE name = $1
LIMIT 1`
	ch, err := scanChannel(repo.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return ch, nil
}

func (repo *ChannelRepo) List(ctx context.Context) ([]*entity.Channel, error) {
	const query = `
SELECT id, name, group_id, last_synced_at
FROM channels
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	channels := make([]*entity.Channel, 0, 50)
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func (repo *ChannelRepo) Create(ctx context.Context, ch *entity.Channel) error {
	const query = `
INSERT INTO channels (name, group_id, last_synced_at)
VALUES ($1, $2, $3)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, ch.Name, ch.GroupID, ch.LastSyncedAt).Scan(&ch.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ChannelRepo) Update(ctx context.Context, ch *entity.Channel) error {
	const query = `
UPDATE channels SET
       name     = $1,
       group_id = $2
WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, query, ch.Name, ch.GroupID, ch.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *ChannelRepo) Delete(ctx context.Context, id int64) error {
	// news_items rows go with the channel via ON DELETE CASCADE.
	const query = `DELETE FROM channels WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *ChannelRepo) TouchSyncedAt(ctx context.Context, id int64, t time.Time) error {
	const query = `UPDATE channels SET last_synced_at = $1 WHERE id = $2`
	_, err := repo.db.ExecContext(ctx, query, t, id)
	return err
}

func (repo *ChannelRepo) DetachGroup(ctx context.Context, groupID int64) error {
	const query = `UPDATE channels SET group_id = NULL WHERE group_id = $1`
	if _, err := repo.db.ExecContext(ctx, query, groupID); err != nil {
		return fmt.Errorf("DetachGroup: %w", err)
	}
	return nil
}
