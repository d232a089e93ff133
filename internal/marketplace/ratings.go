package marketplace

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/pkg/models"
)

type RatingInput struct {
	JobID    string `json:"job_id"`
	ToUserID string `json:"to_user_id"`
	models.RatingScores
}

// RecordRating stores a rating from fromUserID and recomputes the target's
// average over every rating it has received. Calls for the same target are
// serialized so the written average always reflects the full set.
func (s *Service) RecordRating(ctx context.Context, fromUserID string, in RatingInput) (*models.Rating, error) {
	if err := validateScores(in.RatingScores); err != nil {
		return nil, err
	}
	if in.JobID == "" || in.ToUserID == "" {
		return nil, fmt.Errorf("job_id and to_user_id are required: %w", models.ErrInvalidInput)
	}

	unlock := s.ratingLocks.Lock(in.ToUserID)
	defer unlock()

	target, err := s.store.GetUserByID(ctx, in.ToUserID)
	if err != nil {
		return nil, err
	}

	r := &models.Rating{
		ID:           uuid.NewString(),
		JobID:        in.JobID,
		FromUserID:   fromUserID,
		ToUserID:     in.ToUserID,
		RatingScores: in.RatingScores,
		CreatedAt:    s.now(),
	}
	var role models.Role
	if target != nil {
		role = target.Role
	}
	keepDirection(&r.RatingScores, role)

	if err := s.store.CreateRating(ctx, r); err != nil {
		return nil, err
	}

	avg, err := s.AverageRating(ctx, in.ToUserID)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleWorker:
		err = s.store.SetWorkerAverageRating(ctx, in.ToUserID, avg)
	case models.RoleEmployer:
		err = s.store.SetEmployerAverageRating(ctx, in.ToUserID, avg)
	default:
		// admins and unknown users have no profile average
	}
	if err != nil {
		return nil, fmt.Errorf("update average rating: %w", err)
	}

	return r, nil
}

// AverageRating is the mean overall score received by userID, 0 when unrated.
func (s *Service) AverageRating(ctx context.Context, userID string) (float64, error) {
	sum, count, err := s.store.RatingStats(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("rating stats: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

// ListRatings returns the ratings received by userID, newest first.
func (s *Service) ListRatings(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.store.ListRatingsForUser(ctx, userID, collectionLimit)
}

func validateScores(sc models.RatingScores) error {
	if sc.OverallScore < 1 || sc.OverallScore > 5 {
		return fmt.Errorf("overall score %d: %w", sc.OverallScore, models.ErrInvalidScore)
	}
	for name, v := range map[string]*int{
		"workplace_safety":      sc.WorkplaceSafety,
		"communication_quality": sc.CommunicationQuality,
		"technical_competence":  sc.TechnicalCompetence,
		"safety_compliance":     sc.SafetyCompliance,
		"professionalism":       sc.Professionalism,
	} {
		if v != nil && (*v < 1 || *v > 5) {
			return fmt.Errorf("%s %d must be between 1 and 5: %w", name, *v, models.ErrInvalidScore)
		}
	}
	return nil
}

// keepDirection clears the sub-scores that do not apply to a rating of a
// user with the given role. Ratings of workers carry the employer → worker
// fields; ratings of employers carry the worker → employer fields.
func keepDirection(sc *models.RatingScores, targetRole models.Role) {
	clearWorkerToEmployer := func() {
		sc.PaymentMade = nil
		sc.WorkplaceSafety = nil
		sc.CommunicationQuality = nil
	}
	clearEmployerToWorker := func() {
		sc.TechnicalCompetence = nil
		sc.OnTime = nil
		sc.SafetyCompliance = nil
		sc.Professionalism = nil
	}

	switch targetRole {
	case models.RoleWorker:
		clearWorkerToEmployer()
	case models.RoleEmployer:
		clearEmployerToWorker()
	case models.RoleAdmin:
		clearWorkerToEmployer()
		clearEmployerToWorker()
	default:
		clearWorkerToEmployer()
		clearEmployerToWorker()
	}
}
