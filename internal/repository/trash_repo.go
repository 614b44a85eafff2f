package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almonsour13/mango-lens/internal/model"
)

type TrashRepository struct {
	pool *pgxpool.Pool
}

func NewTrashRepository(pool *pgxpool.Pool) *TrashRepository {
	return &TrashRepository{pool: pool}
}

func (r *TrashRepository) Create(ctx context.Context, entry model.TrashEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO trash_entries (id, user_id, item_type, item_id, deleted_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.TrashID, entry.UserID, entry.Type, entry.ItemID, entry.DeletedAt)
	if err != nil {
		return fmt.Errorf("create trash entry: %w", err)
	}
	return nil
}

func (r *TrashRepository) FindByID(ctx context.Context, trashID string) (model.TrashEntry, error) {
	var entry model.TrashEntry
	err := r.pool.QueryRow(ctx,
		`SELECT te.id, te.user_id, te.item_type, te.item_id, te.deleted_at,
		        COALESCE(t.tree_code, 'N/A')
		 FROM trash_entries te
		 LEFT JOIN trees t ON te.item_type = $2 AND t.id = te.item_id
		 WHERE te.id = $1`, trashID, model.TrashTypeTree).
		Scan(&entry.TrashID, &entry.UserID, &entry.Type, &entry.ItemID, &entry.DeletedAt, &entry.TreeCode)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.TrashEntry{}, model.ErrTrashEntryNotFound
	}
	if err != nil {
		return model.TrashEntry{}, fmt.Errorf("find trash entry: %w", err)
	}
	return entry, nil
}

// List returns the caller's trashed entries, newest first. Tree entries
// carry their tree code; image entries report "N/A".
func (r *TrashRepository) List(ctx context.Context, userID string) ([]model.TrashEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT te.id, te.user_id, te.item_type, te.item_id, te.deleted_at,
		        COALESCE(t.tree_code, 'N/A')
		 FROM trash_entries te
		 LEFT JOIN trees t ON te.item_type = $2 AND t.id = te.item_id
		 WHERE te.user_id = $1
		 ORDER BY te.deleted_at DESC`, userID, model.TrashTypeTree)
	if err != nil {
		return nil, fmt.Errorf("list trash: %w", err)
	}
	defer rows.Close()

	entries := make([]model.TrashEntry, 0)
	for rows.Next() {
		var entry model.TrashEntry
		if err := rows.Scan(&entry.TrashID, &entry.UserID, &entry.Type, &entry.ItemID,
			&entry.DeletedAt, &entry.TreeCode); err != nil {
			return nil, fmt.Errorf("scan trash entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *TrashRepository) FindByItem(ctx context.Context, itemType int, itemID string) (model.TrashEntry, error) {
	var entry model.TrashEntry
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, item_type, item_id, deleted_at
		 FROM trash_entries WHERE item_type = $1 AND item_id = $2`, itemType, itemID).
		Scan(&entry.TrashID, &entry.UserID, &entry.Type, &entry.ItemID, &entry.DeletedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.TrashEntry{}, model.ErrTrashEntryNotFound
	}
	if err != nil {
		return model.TrashEntry{}, fmt.Errorf("find trash entry by item: %w", err)
	}
	return entry, nil
}

func (r *TrashRepository) Delete(ctx context.Context, trashID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trash_entries WHERE id = $1`, trashID)
	if err != nil {
		return fmt.Errorf("delete trash entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTrashEntryNotFound
	}
	return nil
}
