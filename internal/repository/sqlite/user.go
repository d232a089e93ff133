package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/ustabul/pkg/models"
)

const userColumns = `id, username, password_hash, role, account_status, created_at, last_login`

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, string(u.Role), string(u.Status), millis(u.CreatedAt), nullMillis(u.LastLogin))
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *SQLiteRepo) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, millis(time.Now()), id)
	return err
}

func (r *SQLiteRepo) scanUser(row *sql.Row) (*models.User, error) {
	var (
		u            models.User
		role, status string
		created      int64
		lastLogin    sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &status, &created, &lastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	var err error
	if u.Role, err = models.ParseRole(role); err != nil {
		return nil, err
	}
	if u.Status, err = models.ParseAccountStatus(status); err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(created)
	u.LastLogin = timePtr(lastLogin)

	return &u, nil
}
