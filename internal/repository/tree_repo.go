package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almonsour13/mango-lens/internal/model"
)

type TreeRepository struct {
	pool *pgxpool.Pool
}

func NewTreeRepository(pool *pgxpool.Pool) *TreeRepository {
	return &TreeRepository{pool: pool}
}

func (r *TreeRepository) Create(ctx context.Context, tree model.Tree) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO trees (id, user_id, tree_code, description, status, added_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tree.ID, tree.UserID, tree.TreeCode, tree.Description, tree.Status, tree.AddedAt, tree.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create tree: %w", err)
	}
	return nil
}

func (r *TreeRepository) FindByID(ctx context.Context, id string) (model.Tree, error) {
	var t model.Tree
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, tree_code, description, status, added_at, updated_at
		 FROM trees WHERE id = $1`, id).
		Scan(&t.ID, &t.UserID, &t.TreeCode, &t.Description, &t.Status, &t.AddedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Tree{}, model.ErrTreeNotFound
	}
	if err != nil {
		return model.Tree{}, fmt.Errorf("find tree by id: %w", err)
	}
	return t, nil
}

func (r *TreeRepository) FindByCode(ctx context.Context, userID string, treeCode string) (model.Tree, error) {
	var t model.Tree
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, tree_code, description, status, added_at, updated_at
		 FROM trees WHERE user_id = $1 AND tree_code = $2`, userID, treeCode).
		Scan(&t.ID, &t.UserID, &t.TreeCode, &t.Description, &t.Status, &t.AddedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Tree{}, model.ErrTreeNotFound
	}
	if err != nil {
		return model.Tree{}, fmt.Errorf("find tree by code: %w", err)
	}
	return t, nil
}

func (r *TreeRepository) ExistsByCode(ctx context.Context, userID string, treeCode string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM trees WHERE user_id = $1 AND tree_code = $2)`,
		userID, treeCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tree code exists: %w", err)
	}
	return exists, nil
}

// ListActive returns the caller's trees that are not in the trash, in
// insertion order.
func (r *TreeRepository) ListActive(ctx context.Context, userID string) ([]model.Tree, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, tree_code, description, status, added_at, updated_at
		 FROM trees WHERE user_id = $1 AND status = $2 ORDER BY added_at`,
		userID, model.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active trees: %w", err)
	}
	defer rows.Close()

	return scanTrees(rows)
}

func (r *TreeRepository) ListAll(ctx context.Context) ([]model.Tree, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, tree_code, description, status, added_at, updated_at
		 FROM trees ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("list all trees: %w", err)
	}
	defer rows.Close()

	return scanTrees(rows)
}

func (r *TreeRepository) SetStatus(ctx context.Context, id string, status int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE trees SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set tree status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTreeNotFound
	}
	return nil
}

// Delete removes the tree row permanently. Images under the tree go with
// it via the schema's cascade.
func (r *TreeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTreeNotFound
	}
	return nil
}

func scanTrees(rows pgx.Rows) ([]model.Tree, error) {
	trees := make([]model.Tree, 0)
	for rows.Next() {
		var t model.Tree
		if err := rows.Scan(&t.ID, &t.UserID, &t.TreeCode, &t.Description, &t.Status, &t.AddedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tree: %w", err)
		}
		trees = append(trees, t)
	}
	return trees, rows.Err()
}
