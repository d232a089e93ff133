package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

const applicationColumns = `id, job_id, worker_id, status, applied_at, responded_at, withdrawal_reason`

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO job_applications (`+applicationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.JobID, a.WorkerID, string(a.Status), millis(a.AppliedAt), nullMillis(a.RespondedAt), nullString(a.WithdrawalReason))
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateApplication
		}
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return oneApplication(r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = ?`, id))
}

func (r *SQLiteRepo) FindApplication(ctx context.Context, jobID, workerID string) (*models.Application, error) {
	return oneApplication(r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE job_id = ? AND worker_id = ?`, jobID, workerID))
}

func (r *SQLiteRepo) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE job_id = ? ORDER BY applied_at LIMIT 100`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateApplication(ctx context.Context, a *models.Application, from models.ApplicationStatus) (bool, error) {
	if a == nil {
		return false, fmt.Errorf("application is nil")
	}

	res, err := r.conn.Exec(ctx, `UPDATE job_applications SET status = ?, responded_at = ?, withdrawal_reason = ? WHERE id = ? AND status = ?`,
		string(a.Status), nullMillis(a.RespondedAt), nullString(a.WithdrawalReason), a.ID, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func oneApplication(row *sql.Row) (*models.Application, error) {
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return a, nil
}

func scanApplication(s scanner) (*models.Application, error) {
	var (
		a         models.Application
		status    string
		applied   int64
		responded sql.NullInt64
		reason    sql.NullString
	)
	if err := s.Scan(&a.ID, &a.JobID, &a.WorkerID, &status, &applied, &responded, &reason); err != nil {
		return nil, err
	}

	var err error
	if a.Status, err = models.ParseApplicationStatus(status); err != nil {
		return nil, err
	}
	a.AppliedAt = fromMillis(applied)
	a.RespondedAt = timePtr(responded)
	a.WithdrawalReason = stringPtr(reason)

	return &a, nil
}
