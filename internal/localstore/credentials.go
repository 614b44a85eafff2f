package localstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/almonsour13/mango-lens/internal/model"
)

// CredentialsRepository caches the signed-in user. The agent is single
// user: Put replaces whatever row was there before.
type CredentialsRepository struct {
	db *sql.DB
}

func NewCredentialsRepository(store *Store) *CredentialsRepository {
	return &CredentialsRepository{db: store.db}
}

func (r *CredentialsRepository) Put(ctx context.Context, creds model.UserCredentials) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStorage("put credentials", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_credentials"); err != nil {
		return wrapStorage("put credentials", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_credentials (user_id, f_name, l_name, email, role, profile_image, token)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		creds.UserID, creds.FName, creds.LName, creds.Email, creds.Role, creds.ProfileImage, creds.Token)
	if err != nil {
		return wrapStorage("put credentials", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapStorage("put credentials", err)
	}
	return nil
}

// Get returns the cached account, or ErrNotFound when nobody is signed in.
func (r *CredentialsRepository) Get(ctx context.Context) (model.UserCredentials, error) {
	var creds model.UserCredentials
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, f_name, l_name, email, role, profile_image, token
		FROM user_credentials LIMIT 1`).
		Scan(&creds.UserID, &creds.FName, &creds.LName, &creds.Email, &creds.Role, &creds.ProfileImage, &creds.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserCredentials{}, ErrNotFound
	}
	if err != nil {
		return model.UserCredentials{}, wrapStorage("get credentials", err)
	}
	return creds, nil
}

func (r *CredentialsRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_credentials"); err != nil {
		return wrapStorage("clear credentials", err)
	}
	return nil
}
