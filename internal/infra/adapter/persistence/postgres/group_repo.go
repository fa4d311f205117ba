package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"telenews/internal/domain/entity"
	"telenews/internal/repository"
)

type GroupRepo struct{ db *sql.DB }

func NewGroupRepo(db *sql.DB) repository.GroupRepository {
	return &GroupRepo{db: db}
}

func (repo *GroupRepo) Get(ctx context.Context, id int64) (*entity.ChannelGroup, error) {
	const query = `
SELECT id, name
FROM channel_groups
WHERE id = $1
LIMIT 1`
	var g entity.ChannelGroup
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &g, nil
}

func (repo *GroupRepo) GetByName(ctx context.Context, name string) (*entity.ChannelGroup, error) {
	const query = `
SELECT id, name
FROM channel_groups
WHERE name = $1
LIMIT 1`
	var g entity.ChannelGroup
	err := repo.db.QueryRowContext(ctx, query, name).Scan(&g.ID, &g.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return &g, nil
}

func (repo *GroupRepo) List(ctx context.Context) ([]*entity.ChannelGroup, error) {
	const query = `
SELECT id, name
FROM channel_groups
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	groups := make([]*entity.ChannelGroup, 0, 20)
	for rows.Next() {
		var g entity.ChannelGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

func (repo *GroupRepo) Create(ctx context.Context, g *entity.ChannelGroup) error {
	const query = `
INSERT INTO channel_groups (name)
VALUES ($1)
RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, g.Name).Scan(&g.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *GroupRepo) Delete(ctx context.Context, id int64) error {
	// Channels referencing the group fall back to NULL via ON DELETE SET NULL;
	// deleting a group never deletes its channels.
	const query = `DELETE FROM channel_groups WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}
