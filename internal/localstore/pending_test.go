package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almonsour13/mango-lens/internal/model"
)

func newMockPendingRepo(t *testing.T) (*PendingRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PendingRepository{db: db}, mock
}

func TestPendingRepository_Put(t *testing.T) {
	repo, mock := newMockPendingRepo(t)

	item := model.PendingItem{
		PendingID: "pending-1",
		UserID:    "user-1",
		TreeCode:  "M-01",
		ImageData: "base64data",
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO pending_items").
		WithArgs(item.PendingID, item.UserID, item.TreeCode, item.ImageData, item.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Put(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingRepository_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockPendingRepo(t)

		created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"pending_id", "user_id", "tree_code", "image_data", "created_at"}).
			AddRow("pending-1", "user-1", "M-01", "base64data", created)
		mock.ExpectQuery("SELECT (.+) FROM pending_items WHERE pending_id").
			WithArgs("pending-1").
			WillReturnRows(rows)

		item, err := repo.Get(context.Background(), "pending-1")

		require.NoError(t, err)
		assert.Equal(t, "M-01", item.TreeCode)
		assert.Equal(t, created, item.CreatedAt)
	})

	t.Run("missing key yields ErrNotFound", func(t *testing.T) {
		repo, mock := newMockPendingRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM pending_items WHERE pending_id").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"pending_id", "user_id", "tree_code", "image_data", "created_at"}))

		_, err := repo.Get(context.Background(), "ghost")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPendingRepository_List(t *testing.T) {
	repo, mock := newMockPendingRepo(t)

	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"pending_id", "user_id", "tree_code", "image_data", "created_at"}).
		AddRow("pending-1", "user-1", "M-01", "one", base).
		AddRow("pending-2", "user-1", "M-02", "two", base.Add(time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM pending_items WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "pending-1", items[0].PendingID)
	assert.Equal(t, "pending-2", items[1].PendingID)
}

func TestPendingRepository_Delete(t *testing.T) {
	t.Run("removes the row", func(t *testing.T) {
		repo, mock := newMockPendingRepo(t)

		mock.ExpectExec("DELETE FROM pending_items WHERE pending_id").
			WithArgs("pending-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "pending-1"))
	})

	t.Run("absent key is not an error", func(t *testing.T) {
		repo, mock := newMockPendingRepo(t)

		mock.ExpectExec("DELETE FROM pending_items WHERE pending_id").
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(context.Background(), "ghost"))
	})
}

func TestPendingRepository_StorageErrors(t *testing.T) {
	repo, mock := newMockPendingRepo(t)

	mock.ExpectExec("INSERT INTO pending_items").
		WillReturnError(assert.AnError)

	err := repo.Put(context.Background(), model.PendingItem{PendingID: "pending-1"})

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}
