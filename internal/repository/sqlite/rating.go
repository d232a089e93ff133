package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

const ratingColumns = `id, job_id, from_user_id, to_user_id, overall_score, comment, payment_made, workplace_safety,
	communication_quality, technical_competence, on_time, safety_compliance, professionalism, created_at`

func (r *SQLiteRepo) CreateRating(ctx context.Context, rt *models.Rating) error {
	if rt == nil {
		return fmt.Errorf("rating is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO ratings (`+ratingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.JobID, rt.FromUserID, rt.ToUserID, rt.OverallScore, nullString(rt.Comment),
		nullBool(rt.PaymentMade), nullInt(rt.WorkplaceSafety), nullInt(rt.CommunicationQuality),
		nullInt(rt.TechnicalCompetence), nullBool(rt.OnTime), nullInt(rt.SafetyCompliance), nullInt(rt.Professionalism),
		millis(rt.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert rating: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) ListRatingsForUser(ctx context.Context, userID string, limit int) ([]models.Rating, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE to_user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Rating{}
	for rows.Next() {
		var (
			rt                               models.Rating
			comment                          sql.NullString
			paymentMade, onTime              sql.NullBool
			safety, communication, technical sql.NullInt64
			compliance, professionalism      sql.NullInt64
			created                          int64
		)
		if err := rows.Scan(&rt.ID, &rt.JobID, &rt.FromUserID, &rt.ToUserID, &rt.OverallScore, &comment,
			&paymentMade, &safety, &communication, &technical, &onTime, &compliance, &professionalism, &created); err != nil {
			return nil, err
		}
		rt.Comment = stringPtr(comment)
		rt.PaymentMade = boolPtr(paymentMade)
		rt.WorkplaceSafety = intPtr(safety)
		rt.CommunicationQuality = intPtr(communication)
		rt.TechnicalCompetence = intPtr(technical)
		rt.OnTime = boolPtr(onTime)
		rt.SafetyCompliance = intPtr(compliance)
		rt.Professionalism = intPtr(professionalism)
		rt.CreatedAt = fromMillis(created)
		out = append(out, rt)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) RatingStats(ctx context.Context, userID string) (int64, int64, error) {
	var sum, count int64
	row := r.conn.QueryRow(ctx, `SELECT COALESCE(SUM(overall_score), 0), COUNT(1) FROM ratings WHERE to_user_id = ?`, userID)
	if err := row.Scan(&sum, &count); err != nil {
		return 0, 0, err
	}

	return sum, count, nil
}
