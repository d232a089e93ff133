package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

const jobColumns = `id, employer_id, title, description, required_skills, start_date, end_date, budget_info,
	job_status, created_at, expires_at, view_count`

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("encode required skills: %w", err)
	}

	_, err = r.conn.Exec(ctx, `INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.EmployerID, j.Title, j.Description, string(b), millis(j.StartDate), millis(j.EndDate), nullString(j.BudgetInfo),
		string(j.Status), millis(j.CreatedAt), millis(j.ExpiresAt), j.ViewCount)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return j, nil
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, status models.JobStatus, limit, offset int) ([]models.Job, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		rows, err = r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs WHERE job_status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, string(status), limit, offset)
	} else {
		rows, err = r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectJobs(rows)
}

// IncrementViewCount is a single UPDATE so concurrent readers never lose a view.
func (r *SQLiteRepo) IncrementViewCount(ctx context.Context, id string) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE jobs SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) SetJobStatus(ctx context.Context, id string, from, to models.JobStatus) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE jobs SET job_status = ? WHERE id = ? AND job_status = ?`, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) ListExpiredOpenJobs(ctx context.Context, beforeMillis int64) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs WHERE job_status = ? AND expires_at < ? ORDER BY expires_at`, string(models.JobOpen), beforeMillis)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]models.Job, error) {
	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

func scanJob(s scanner) (*models.Job, error) {
	var (
		j                            models.Job
		skills, status               string
		budget                       sql.NullString
		start, end, created, expires int64
	)
	if err := s.Scan(&j.ID, &j.EmployerID, &j.Title, &j.Description, &skills, &start, &end, &budget,
		&status, &created, &expires, &j.ViewCount); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(skills), &j.RequiredSkills); err != nil {
		return nil, fmt.Errorf("decode required skills of job %s: %w", j.ID, err)
	}
	var err error
	if j.Status, err = models.ParseJobStatus(status); err != nil {
		return nil, err
	}
	j.BudgetInfo = stringPtr(budget)
	j.StartDate = fromMillis(start)
	j.EndDate = fromMillis(end)
	j.CreatedAt = fromMillis(created)
	j.ExpiresAt = fromMillis(expires)

	return &j, nil
}
