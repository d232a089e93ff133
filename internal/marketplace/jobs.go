package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/pkg/models"
)

type JobInput struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"required_skills"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	BudgetInfo     *string   `json:"budget_info,omitempty"`
}

// CreateJob posts an open job that expires after the configured lifetime and
// bumps the employer's posted-jobs counter.
func (s *Service) CreateJob(ctx context.Context, employerID string, in JobInput) (*models.Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrInvalidInput)
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("end date must be after start date: %w", models.ErrInvalidInput)
	}
	if in.RequiredSkills == nil {
		in.RequiredSkills = []string{}
	}

	now := s.now()
	j := &models.Job{
		ID:             uuid.NewString(),
		EmployerID:     employerID,
		Title:          in.Title,
		Description:    in.Description,
		RequiredSkills: in.RequiredSkills,
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		BudgetInfo:     in.BudgetInfo,
		Status:         models.JobOpen,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.opts.JobLifetime),
	}
	if err := s.store.CreateJob(ctx, j); err != nil {
		return nil, err
	}
	if err := s.store.IncrementJobsPosted(ctx, employerID); err != nil {
		return nil, fmt.Errorf("update employer stats: %w", err)
	}

	s.logger.Info("job created", "job_id", j.ID, "employer_id", employerID)
	return j, nil
}

// GetJob counts a view and returns the job including that view.
func (s *Service) GetJob(ctx context.Context, id string) (*models.Job, error) {
	ok, err := s.store.IncrementViewCount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, models.ErrNotFound)
	}
	return s.job(ctx, id)
}

// ListJobs returns jobs newest first; an empty status matches all jobs.
func (s *Service) ListJobs(ctx context.Context, status models.JobStatus, page Page) ([]models.Job, error) {
	if status != "" {
		if _, err := models.ParseJobStatus(string(status)); err != nil {
			return nil, fmt.Errorf("%v: %w", err, models.ErrInvalidInput)
		}
	}
	page = page.normalize()
	return s.store.ListJobs(ctx, status, page.Limit, page.Skip)
}

// TransitionJob moves a job owned by employerID along its lifecycle.
func (s *Service) TransitionJob(ctx context.Context, jobID, employerID string, to models.JobStatus) (*models.Job, error) {
	if _, err := models.ParseJobStatus(string(to)); err != nil {
		return nil, fmt.Errorf("%v: %w", err, models.ErrInvalidInput)
	}

	j, err := s.job(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.EmployerID != employerID {
		return nil, fmt.Errorf("job %s belongs to another employer: %w", jobID, models.ErrForbidden)
	}
	if !j.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("job %s: %s -> %s: %w", jobID, j.Status, to, models.ErrInvalidTransition)
	}

	ok, err := s.store.SetJobStatus(ctx, jobID, j.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("job %s is no longer %s: %w", jobID, j.Status, models.ErrInvalidTransition)
	}
	j.Status = to
	return j, nil
}

// ExpireJobs cancels every open job whose expiry is before now and tells the
// employer. It returns how many jobs were cancelled.
func (s *Service) ExpireJobs(ctx context.Context, now time.Time) (int, error) {
	jobs, err := s.store.ListExpiredOpenJobs(ctx, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("list expired jobs: %w", err)
	}

	var errs []error
	expired := 0
	for _, j := range jobs {
		ok, err := s.store.SetJobStatus(ctx, j.ID, models.JobOpen, models.JobCancelled)
		if err != nil {
			errs = append(errs, fmt.Errorf("cancel job %s: %w", j.ID, err))
			continue
		}
		if !ok {
			// matched or closed since it was listed
			continue
		}
		expired++

		jobID := j.ID
		msg := fmt.Sprintf("%s ilanınızın süresi doldu", j.Title)
		if _, err := s.notifier.Emit(ctx, j.EmployerID, models.NotifyJobExpired, "İlan Süresi Doldu", msg, &jobID); err != nil {
			errs = append(errs, err)
		}
	}

	return expired, errors.Join(errs...)
}

func (s *Service) job(ctx context.Context, id string) (*models.Job, error) {
	j, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, fmt.Errorf("job %s: %w", id, models.ErrNotFound)
	}
	return j, nil
}
