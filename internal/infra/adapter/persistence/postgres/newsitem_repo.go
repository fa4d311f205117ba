package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"telenews/internal/domain/entity"
	"telenews/internal/repository"
)

type NewsItemRepo struct{ db *sql.DB }

func NewNewsItemRepo(db *sql.DB) repository.NewsItemRepository {
	return &NewsItemRepo{db: db}
}

func (repo *NewsItemRepo) ListWithChannelPaginated(ctx context.Context, filters repository.NewsItemFilters, offset, limit int) ([]repository.NewsItemWithChannel, error) {
	query := `
SELECT n.id, n.channel_id, n.content, n.media_file, n.published_at, n.external_id, c.name
FROM news_items n
JOIN channels c ON c.id = n.channel_id`
	args := make([]any, 0, 3)
	if filters.GroupID != nil {
		args = append(args, *filters.GroupID)
		query += fmt.Sprintf("\nWHERE c.group_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf("\nORDER BY n.published_at DESC\nLIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListWithChannelPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]repository.NewsItemWithChannel, 0, limit)
	for rows.Next() {
		var (
			item entity.NewsItem
			name string
		)
		if err := rows.Scan(&item.ID, &item.ChannelID, &item.Content,
			&item.MediaFile, &item.PublishedAt, &item.ExternalID, &name); err != nil {
			return nil, fmt.Errorf("ListWithChannelPaginated: %w", err)
		}
		items = append(items, repository.NewsItemWithChannel{Item: &item, ChannelName: name})
	}
	return items, rows.Err()
}

func (repo *NewsItemRepo) ExistsByExternalIDBatch(ctx context.Context, channelID int64, externalIDs []int64) (map[int64]bool, error) {
	if len(externalIDs) == 0 {
		return make(map[int64]bool), nil
	}

	// Identity is channel-scoped: the same external id under another channel
	// must not count as existing.
	const query = `SELECT external_id FROM news_items WHERE channel_id = $1 AND external_id = ANY($2)`
	rows, err := repo.db.QueryContext(ctx, query, channelID, pq.Array(externalIDs))
	if err != nil {
		return nil, fmt.Errorf("ExistsByExternalIDBatch: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ExistsByExternalIDBatch: Scan: %w", err)
		}
		result[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistsByExternalIDBatch: rows.Err: %w", err)
	}

	return result, nil
}

func (repo *NewsItemRepo) CreateBatch(ctx context.Context, items []*entity.NewsItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CreateBatch: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
INSERT INTO news_items (channel_id, content, media_file, published_at, external_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	for _, item := range items {
		if err := tx.QueryRowContext(ctx, query,
			item.ChannelID, item.Content, item.MediaFile,
			item.PublishedAt, item.ExternalID,
		).Scan(&item.ID); err != nil {
			return fmt.Errorf("CreateBatch: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CreateBatch: commit: %w", err)
	}
	return nil
}

func (repo *NewsItemRepo) DeleteAll(ctx context.Context) error {
	const query = `DELETE FROM news_items`
	if _, err := repo.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("DeleteAll: %w", err)
	}
	return nil
}

func (repo *NewsItemRepo) ListMediaFiles(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT media_file FROM news_items WHERE media_file IS NOT NULL`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListMediaFiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make([]string, 0, 100)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ListMediaFiles: %w", err)
		}
		files = append(files, name)
	}
	return files, rows.Err()
}
