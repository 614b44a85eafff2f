package localstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/almonsour13/mango-lens/internal/model"
)

// ErrNotFound is returned by lookups of a key that is not in the store.
var ErrNotFound = errors.New("localstore: not found")

type PendingRepository struct {
	db *sql.DB
}

func NewPendingRepository(store *Store) *PendingRepository {
	return &PendingRepository{db: store.db}
}

func (r *PendingRepository) Put(ctx context.Context, item model.PendingItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_items (pending_id, user_id, tree_code, image_data, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(pending_id) DO UPDATE SET
			tree_code = excluded.tree_code,
			image_data = excluded.image_data`,
		item.PendingID, item.UserID, item.TreeCode, item.ImageData, item.CreatedAt)
	if err != nil {
		return wrapStorage("put pending item", err)
	}
	return nil
}

func (r *PendingRepository) Get(ctx context.Context, pendingID string) (model.PendingItem, error) {
	var item model.PendingItem
	err := r.db.QueryRowContext(ctx, `
		SELECT pending_id, user_id, tree_code, image_data, created_at
		FROM pending_items WHERE pending_id = ?`, pendingID).
		Scan(&item.PendingID, &item.UserID, &item.TreeCode, &item.ImageData, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PendingItem{}, ErrNotFound
	}
	if err != nil {
		return model.PendingItem{}, wrapStorage("get pending item", err)
	}
	return item, nil
}

// List returns queued items in insertion order.
func (r *PendingRepository) List(ctx context.Context, userID string) ([]model.PendingItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pending_id, user_id, tree_code, image_data, created_at
		FROM pending_items WHERE user_id = ?
		ORDER BY created_at ASC, pending_id ASC`, userID)
	if err != nil {
		return nil, wrapStorage("list pending items", err)
	}
	defer rows.Close()

	items := []model.PendingItem{}
	for rows.Next() {
		var item model.PendingItem
		if err := rows.Scan(&item.PendingID, &item.UserID, &item.TreeCode, &item.ImageData, &item.CreatedAt); err != nil {
			return nil, wrapStorage("scan pending item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorage("list pending items", err)
	}
	return items, nil
}

// Delete removes an item. Deleting an absent key is not an error.
func (r *PendingRepository) Delete(ctx context.Context, pendingID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM pending_items WHERE pending_id = ?", pendingID); err != nil {
		return wrapStorage("delete pending item", err)
	}
	return nil
}

func (r *PendingRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM pending_items WHERE user_id = ?", userID); err != nil {
		return wrapStorage("clear pending items", err)
	}
	return nil
}
