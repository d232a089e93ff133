package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

const employerColumns = `user_id, company_name, tax_number, sector, city, district, address,
	payment_reliability_score, cancellation_count, total_jobs_posted, average_rating`

func (r *SQLiteRepo) CreateEmployerProfile(ctx context.Context, p *models.EmployerProfile) error {
	if p == nil {
		return fmt.Errorf("employer profile is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO employer_details (`+employerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.CompanyName, nullString(p.TaxNumber), p.Sector, p.City, p.District, p.Address,
		p.PaymentReliabilityScore, p.CancellationCount, p.TotalJobsPosted, p.AverageRating)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("employer profile for %s exists: %w", p.UserID, models.ErrInvalidInput)
		}
		return fmt.Errorf("insert employer profile: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetEmployerProfile(ctx context.Context, userID string) (*models.EmployerProfile, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+employerColumns+` FROM employer_details WHERE user_id = ?`, userID)
	p, err := scanEmployer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

func (r *SQLiteRepo) ListEmployerProfiles(ctx context.Context, limit, offset int) ([]models.EmployerProfile, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+employerColumns+` FROM employer_details ORDER BY rowid LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.EmployerProfile{}
	for rows.Next() {
		p, err := scanEmployer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) SetEmployerAverageRating(ctx context.Context, userID string, avg float64) error {
	_, err := r.conn.Exec(ctx, `UPDATE employer_details SET average_rating = ? WHERE user_id = ?`, avg, userID)
	return err
}

// IncrementJobsPosted bumps the counter in a single statement so concurrent
// job creations do not lose updates.
func (r *SQLiteRepo) IncrementJobsPosted(ctx context.Context, userID string) error {
	_, err := r.conn.Exec(ctx, `UPDATE employer_details SET total_jobs_posted = total_jobs_posted + 1 WHERE user_id = ?`, userID)
	return err
}

func scanEmployer(s scanner) (*models.EmployerProfile, error) {
	var (
		p   models.EmployerProfile
		tax sql.NullString
	)
	if err := s.Scan(&p.UserID, &p.CompanyName, &tax, &p.Sector, &p.City, &p.District, &p.Address,
		&p.PaymentReliabilityScore, &p.CancellationCount, &p.TotalJobsPosted, &p.AverageRating); err != nil {
		return nil, err
	}
	p.TaxNumber = stringPtr(tax)

	return &p, nil
}
