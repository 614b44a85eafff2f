package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almonsour13/mango-lens/internal/model"
)

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (model.Image, error) {
	var img model.Image
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, tree_id, mime_type, image_data, status, uploaded_at
		 FROM images WHERE id = $1`, id).
		Scan(&img.ID, &img.UserID, &img.TreeID, &img.MimeType, &img.ImageData, &img.Status, &img.UploadedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Image{}, model.ErrImageNotFound
	}
	if err != nil {
		return model.Image{}, fmt.Errorf("find image by id: %w", err)
	}
	return img, nil
}

// FindByPendingID looks up an image previously saved under an offline
// queue idempotency key.
func (r *ImageRepository) FindByPendingID(ctx context.Context, pendingID string) (model.Image, error) {
	var img model.Image
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, tree_id, mime_type, image_data, status, uploaded_at
		 FROM images WHERE pending_id = $1`, pendingID).
		Scan(&img.ID, &img.UserID, &img.TreeID, &img.MimeType, &img.ImageData, &img.Status, &img.UploadedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Image{}, model.ErrImageNotFound
	}
	if err != nil {
		return model.Image{}, fmt.Errorf("find image by pending id: %w", err)
	}
	return img, nil
}

// ListActive returns image metadata without blobs; blobs are fetched one
// at a time through FindByID.
func (r *ImageRepository) ListActive(ctx context.Context, userID string) ([]model.ImageDetails, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.user_id, i.tree_id, i.mime_type, i.status, i.uploaded_at, t.tree_code
		 FROM images i
		 JOIN trees t ON t.id = i.tree_id
		 WHERE i.user_id = $1 AND i.status = $2
		 ORDER BY i.uploaded_at DESC`,
		userID, model.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active images: %w", err)
	}
	defer rows.Close()

	items := make([]model.ImageDetails, 0)
	for rows.Next() {
		var d model.ImageDetails
		if err := rows.Scan(&d.Image.ID, &d.Image.UserID, &d.Image.TreeID, &d.Image.MimeType,
			&d.Image.Status, &d.Image.UploadedAt, &d.TreeCode); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *ImageRepository) SetStatus(ctx context.Context, id string, status int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE images SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set image status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImageNotFound
	}
	return nil
}

// Delete removes the image row permanently. Its analysis rows go with it
// via the schema's cascade.
func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImageNotFound
	}
	return nil
}
