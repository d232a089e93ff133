package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/pkg/models"
)

// Apply files workerID's application to a job and notifies the employer.
func (s *Service) Apply(ctx context.Context, jobID, workerID string) (*models.Application, error) {
	existing, err := s.store.FindApplication(ctx, jobID, workerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateApplication
	}

	j, err := s.job(ctx, jobID)
	if err != nil {
		return nil, err
	}

	a := &models.Application{
		ID:        uuid.NewString(),
		JobID:     jobID,
		WorkerID:  workerID,
		Status:    models.ApplicationApplied,
		AppliedAt: s.now(),
	}
	if err := s.store.CreateApplication(ctx, a); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s ilanınıza yeni bir başvuru yapıldı", j.Title)
	if _, err := s.notifier.Emit(ctx, j.EmployerID, models.NotifyNewApplication, "Yeni Başvuru", msg, &j.ID); err != nil {
		return nil, err
	}

	return a, nil
}

// Accept accepts an application, matches its job and notifies the worker.
// An already matched job is left as is; a job in any other state than open
// rejects the accept before anything is written.
func (s *Service) Accept(ctx context.Context, applicationID, employerID string) (*models.Application, error) {
	a, j, err := s.respond(ctx, applicationID, employerID, models.ApplicationAccepted)
	if err != nil {
		return nil, err
	}

	var matchJob bool
	switch j.Status {
	case models.JobOpen:
		matchJob = true
	case models.JobMatched:
	case models.JobInProgress, models.JobCompleted, models.JobCancelled, models.JobDisputed:
		return nil, fmt.Errorf("job %s is %s: %w", j.ID, j.Status, models.ErrInvalidTransition)
	default:
		return nil, fmt.Errorf("job %s has unknown status %q: %w", j.ID, j.Status, models.ErrInvalidTransition)
	}

	if err := s.markResponded(ctx, a, models.ApplicationAccepted); err != nil {
		return nil, err
	}
	if matchJob {
		if err := s.matchJob(ctx, j.ID); err != nil {
			return nil, err
		}
	}

	msg := "İşveren başvurunuzu kabul etti. İletişim bilgilerine ulaşabilirsiniz."
	if _, err := s.notifier.Emit(ctx, a.WorkerID, models.NotifyApplicationAccepted, "Başvurunuz Kabul Edildi", msg, &j.ID); err != nil {
		return nil, err
	}

	return a, nil
}

// Reject declines an application and notifies the worker.
func (s *Service) Reject(ctx context.Context, applicationID, employerID string) (*models.Application, error) {
	a, j, err := s.respond(ctx, applicationID, employerID, models.ApplicationRejected)
	if err != nil {
		return nil, err
	}

	if err := s.markResponded(ctx, a, models.ApplicationRejected); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s ilanına yaptığınız başvuru kabul edilmedi", j.Title)
	if _, err := s.notifier.Emit(ctx, a.WorkerID, models.NotifyApplicationRejected, "Başvurunuz Reddedildi", msg, &j.ID); err != nil {
		return nil, err
	}

	return a, nil
}

// Withdraw lets the applicant pull back an application and notifies the employer.
func (s *Service) Withdraw(ctx context.Context, applicationID, workerID, reason string) (*models.Application, error) {
	a, err := s.application(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.WorkerID != workerID {
		return nil, fmt.Errorf("application %s belongs to another worker: %w", applicationID, models.ErrForbidden)
	}
	if !a.Status.CanTransitionTo(models.ApplicationWithdrawn) {
		return nil, fmt.Errorf("application %s: %s -> %s: %w", a.ID, a.Status, models.ApplicationWithdrawn, models.ErrInvalidTransition)
	}
	j, err := s.job(ctx, a.JobID)
	if err != nil {
		return nil, err
	}

	from := a.Status
	a.Status = models.ApplicationWithdrawn
	if reason = strings.TrimSpace(reason); reason != "" {
		a.WithdrawalReason = &reason
	}
	if err := s.updateApplication(ctx, a, from); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s ilanına yapılan bir başvuru geri çekildi", j.Title)
	if _, err := s.notifier.Emit(ctx, j.EmployerID, models.NotifyApplicationWithdrawn, "Başvuru Geri Çekildi", msg, &j.ID); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) ListApplications(ctx context.Context, jobID string) ([]models.Application, error) {
	return s.store.ListApplicationsByJob(ctx, jobID)
}

func (s *Service) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return s.application(ctx, id)
}

// respond loads an application and its job for an employer decision and
// checks that the application can move to the given state.
func (s *Service) respond(ctx context.Context, applicationID, employerID string, to models.ApplicationStatus) (*models.Application, *models.Job, error) {
	a, err := s.application(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	j, err := s.job(ctx, a.JobID)
	if err != nil {
		return nil, nil, err
	}
	if s.opts.EnforceOwnership && j.EmployerID != employerID {
		return nil, nil, fmt.Errorf("job %s belongs to another employer: %w", j.ID, models.ErrForbidden)
	}
	if !a.Status.CanTransitionTo(to) {
		return nil, nil, fmt.Errorf("application %s: %s -> %s: %w", a.ID, a.Status, to, models.ErrInvalidTransition)
	}
	return a, j, nil
}

func (s *Service) markResponded(ctx context.Context, a *models.Application, to models.ApplicationStatus) error {
	now := s.now()
	from := a.Status
	a.Status = to
	a.RespondedAt = &now
	return s.updateApplication(ctx, a, from)
}

// updateApplication writes a only if nobody moved it out of from since it was
// read; losing that race is an invalid transition.
func (s *Service) updateApplication(ctx context.Context, a *models.Application, from models.ApplicationStatus) error {
	ok, err := s.store.UpdateApplication(ctx, a, from)
	if err != nil {
		return fmt.Errorf("update application %s: %w", a.ID, err)
	}
	if !ok {
		return fmt.Errorf("application %s is no longer %s: %w", a.ID, from, models.ErrInvalidTransition)
	}
	return nil
}

// matchJob moves an open job to matched. A job matched concurrently by
// another accept is fine; any other state is an invalid transition.
func (s *Service) matchJob(ctx context.Context, jobID string) error {
	ok, err := s.store.SetJobStatus(ctx, jobID, models.JobOpen, models.JobMatched)
	if err != nil {
		return fmt.Errorf("match job %s: %w", jobID, err)
	}
	if ok {
		return nil
	}
	j, err := s.job(ctx, jobID)
	if err != nil {
		return err
	}
	if j.Status != models.JobMatched {
		return fmt.Errorf("job %s is %s: %w", jobID, j.Status, models.ErrInvalidTransition)
	}
	return nil
}

func (s *Service) application(ctx context.Context, id string) (*models.Application, error) {
	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("application %s: %w", id, models.ErrNotFound)
	}
	return a, nil
}
