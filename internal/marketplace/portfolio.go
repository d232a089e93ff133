package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/pkg/models"
)

type PortfolioUpload struct {
	WorkerID           string
	ContentType        string
	Data               []byte
	Description        string
	MaterialTag        string
	TechniqueTag       string
	VerificationSource models.VerificationSource
}

// UploadPortfolio stores an image for a worker. The same image may be
// uploaded again by its owner; another worker's image is rejected with
// ErrDuplicateMedia.
func (s *Service) UploadPortfolio(ctx context.Context, in PortfolioUpload) (*models.PortfolioItem, error) {
	if s.media == nil {
		return nil, errors.New("media storage is not configured")
	}
	if _, err := s.userWithRole(ctx, in.WorkerID, models.RoleWorker); err != nil {
		return nil, err
	}
	if in.VerificationSource == "" {
		in.VerificationSource = models.SourceGallery
	}
	if _, err := models.ParseVerificationSource(string(in.VerificationSource)); err != nil {
		return nil, fmt.Errorf("%v: %w", err, models.ErrInvalidInput)
	}

	stored, err := s.media.Save(in.ContentType, in.Data)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetPortfolioItemByHash(ctx, stored.Hash)
	if err != nil {
		s.discard(stored.Name)
		return nil, err
	}
	if existing != nil && existing.WorkerID != in.WorkerID {
		s.discard(stored.Name)
		return nil, models.ErrDuplicateMedia
	}

	item := &models.PortfolioItem{
		ID:                 uuid.NewString(),
		WorkerID:           in.WorkerID,
		PhotoURL:           stored.URL,
		ThumbnailURL:       stored.URL,
		Description:        in.Description,
		MaterialTag:        in.MaterialTag,
		TechniqueTag:       in.TechniqueTag,
		VerificationSource: in.VerificationSource,
		IsVerifiedShot:     in.VerificationSource == models.SourceCamera,
		HasExifData:        true,
		ImageHash:          stored.Hash,
		UploadDate:         s.now(),
	}
	if err := s.store.CreatePortfolioItem(ctx, item); err != nil {
		s.discard(stored.Name)
		return nil, err
	}

	return item, nil
}

func (s *Service) ListPortfolio(ctx context.Context, workerID string) ([]models.PortfolioItem, error) {
	return s.store.ListPortfolioByWorker(ctx, workerID)
}

func (s *Service) discard(name string) {
	if err := s.media.Remove(name); err != nil {
		s.logger.Warn("remove rejected upload failed", "file", name, "err", err)
	}
}
