package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

const workerColumns = `user_id, first_name, last_name, birth_year, city, district, is_anonymous, certificate_status,
	certificate_photo_url, ghosting_count, rejected_job_count, total_jobs_completed, average_rating`

func (r *SQLiteRepo) CreateWorkerProfile(ctx context.Context, p *models.WorkerProfile) error {
	if p == nil {
		return fmt.Errorf("worker profile is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO worker_details (`+workerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.FirstName, p.LastName, p.BirthYear, p.City, p.District, p.IsAnonymous, string(p.CertificateStatus),
		nullString(p.CertificatePhotoURL), p.GhostingCount, p.RejectedJobCount, p.TotalJobsCompleted, p.AverageRating)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("worker profile for %s exists: %w", p.UserID, models.ErrInvalidInput)
		}
		return fmt.Errorf("insert worker profile: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetWorkerProfile(ctx context.Context, userID string) (*models.WorkerProfile, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+workerColumns+` FROM worker_details WHERE user_id = ?`, userID)
	p, err := scanWorker(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

func (r *SQLiteRepo) ListWorkerProfiles(ctx context.Context, limit, offset int) ([]models.WorkerProfile, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+workerColumns+` FROM worker_details ORDER BY rowid LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.WorkerProfile{}
	for rows.Next() {
		p, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) SetWorkerAverageRating(ctx context.Context, userID string, avg float64) error {
	_, err := r.conn.Exec(ctx, `UPDATE worker_details SET average_rating = ? WHERE user_id = ?`, avg, userID)
	return err
}

func (r *SQLiteRepo) AddWorkerSkill(ctx context.Context, s *models.WorkerSkill) error {
	if s == nil {
		return fmt.Errorf("worker skill is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO worker_skills (worker_id, skill_category_id, years_of_experience, is_primary, added_at) VALUES (?, ?, ?, ?, ?)`,
		s.WorkerID, s.SkillCategoryID, s.YearsOfExperience, s.IsPrimary, millis(s.AddedAt))
	return err
}

func (r *SQLiteRepo) ListWorkerSkills(ctx context.Context, workerID string) ([]models.WorkerSkill, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT worker_id, skill_category_id, years_of_experience, is_primary, added_at FROM worker_skills WHERE worker_id = ? ORDER BY added_at`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.WorkerSkill{}
	for rows.Next() {
		var (
			s     models.WorkerSkill
			added int64
		)
		if err := rows.Scan(&s.WorkerID, &s.SkillCategoryID, &s.YearsOfExperience, &s.IsPrimary, &added); err != nil {
			return nil, err
		}
		s.AddedAt = fromMillis(added)
		out = append(out, s)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorker(s scanner) (*models.WorkerProfile, error) {
	var (
		p        models.WorkerProfile
		cert     string
		photoURL sql.NullString
	)
	if err := s.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.BirthYear, &p.City, &p.District, &p.IsAnonymous, &cert,
		&photoURL, &p.GhostingCount, &p.RejectedJobCount, &p.TotalJobsCompleted, &p.AverageRating); err != nil {
		return nil, err
	}

	var err error
	if p.CertificateStatus, err = models.ParseCertificateStatus(cert); err != nil {
		return nil, err
	}
	p.CertificatePhotoURL = stringPtr(photoURL)

	return &p, nil
}
