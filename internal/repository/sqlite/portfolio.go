package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

const portfolioColumns = `id, worker_id, photo_url, thumbnail_url, description, material_tag, technique_tag,
	verification_source, is_verified_shot, has_exif_data, image_hash, upload_date, view_count, like_count`

func (r *SQLiteRepo) CreatePortfolioItem(ctx context.Context, p *models.PortfolioItem) error {
	if p == nil {
		return fmt.Errorf("portfolio item is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO portfolio (`+portfolioColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkerID, p.PhotoURL, p.ThumbnailURL, p.Description, p.MaterialTag, p.TechniqueTag,
		string(p.VerificationSource), p.IsVerifiedShot, p.HasExifData, p.ImageHash, millis(p.UploadDate), p.ViewCount, p.LikeCount)
	if err != nil {
		return fmt.Errorf("insert portfolio item: %w", err)
	}

	return nil
}

// GetPortfolioItemByHash returns the earliest upload carrying the given content hash.
func (r *SQLiteRepo) GetPortfolioItemByHash(ctx context.Context, hash string) (*models.PortfolioItem, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+portfolioColumns+` FROM portfolio WHERE image_hash = ? ORDER BY upload_date ASC LIMIT 1`, hash)
	p, err := scanPortfolio(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

func (r *SQLiteRepo) ListPortfolioByWorker(ctx context.Context, workerID string) ([]models.PortfolioItem, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+portfolioColumns+` FROM portfolio WHERE worker_id = ? ORDER BY upload_date DESC LIMIT 100`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PortfolioItem{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

func scanPortfolio(s scanner) (*models.PortfolioItem, error) {
	var (
		p        models.PortfolioItem
		source   string
		uploaded int64
	)
	if err := s.Scan(&p.ID, &p.WorkerID, &p.PhotoURL, &p.ThumbnailURL, &p.Description, &p.MaterialTag, &p.TechniqueTag,
		&source, &p.IsVerifiedShot, &p.HasExifData, &p.ImageHash, &uploaded, &p.ViewCount, &p.LikeCount); err != nil {
		return nil, err
	}

	var err error
	if p.VerificationSource, err = models.ParseVerificationSource(source); err != nil {
		return nil, err
	}
	p.UploadDate = fromMillis(uploaded)

	return &p, nil
}
