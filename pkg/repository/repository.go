package repository

import (
	"context"

	"github.com/garnizeh/ustabul/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Getters return (nil, nil) when the entity does not exist.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type WorkerRepo interface {
	CreateWorkerProfile(ctx context.Context, p *models.WorkerProfile) error
	GetWorkerProfile(ctx context.Context, userID string) (*models.WorkerProfile, error)
	ListWorkerProfiles(ctx context.Context, limit, offset int) ([]models.WorkerProfile, error)
	SetWorkerAverageRating(ctx context.Context, userID string, avg float64) error
	AddWorkerSkill(ctx context.Context, s *models.WorkerSkill) error
	ListWorkerSkills(ctx context.Context, workerID string) ([]models.WorkerSkill, error)
}

type EmployerRepo interface {
	CreateEmployerProfile(ctx context.Context, p *models.EmployerProfile) error
	GetEmployerProfile(ctx context.Context, userID string) (*models.EmployerProfile, error)
	ListEmployerProfiles(ctx context.Context, limit, offset int) ([]models.EmployerProfile, error)
	SetEmployerAverageRating(ctx context.Context, userID string, avg float64) error
	IncrementJobsPosted(ctx context.Context, userID string) error
}

type SkillRepo interface {
	CreateCategory(ctx context.Context, c *models.SkillCategory) error
	GetCategory(ctx context.Context, id string) (*models.SkillCategory, error)
	// ListCategories returns every category ordered by display_order ascending.
	ListCategories(ctx context.Context) ([]models.SkillCategory, error)
}

type PortfolioRepo interface {
	CreatePortfolioItem(ctx context.Context, p *models.PortfolioItem) error
	GetPortfolioItemByHash(ctx context.Context, hash string) (*models.PortfolioItem, error)
	ListPortfolioByWorker(ctx context.Context, workerID string) ([]models.PortfolioItem, error)
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	// ListJobs returns jobs newest first. An empty status matches every job.
	ListJobs(ctx context.Context, status models.JobStatus, limit, offset int) ([]models.Job, error)
	// IncrementViewCount reports false when no job has the given id.
	IncrementViewCount(ctx context.Context, id string) (bool, error)
	// SetJobStatus moves a job from one status to another. It reports false,
	// writing nothing, when the stored status is no longer from or the job is missing.
	SetJobStatus(ctx context.Context, id string, from, to models.JobStatus) (bool, error)
	// ListExpiredOpenJobs returns open jobs whose expires_at is before the given unix millisecond instant.
	ListExpiredOpenJobs(ctx context.Context, beforeMillis int64) ([]models.Job, error)
}

type ApplicationRepo interface {
	// CreateApplication fails with models.ErrDuplicateApplication when the
	// (job, worker) pair already exists.
	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	FindApplication(ctx context.Context, jobID, workerID string) (*models.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error)
	// UpdateApplication writes a only while the stored status is still from
	// and reports whether it did.
	UpdateApplication(ctx context.Context, a *models.Application, from models.ApplicationStatus) (bool, error)
}

type RatingRepo interface {
	CreateRating(ctx context.Context, r *models.Rating) error
	// ListRatingsForUser returns ratings received by userID, newest first.
	ListRatingsForUser(ctx context.Context, userID string, limit int) ([]models.Rating, error)
	// RatingStats returns the sum and count of overall_score over every rating received by userID.
	RatingStats(ctx context.Context, userID string) (sum int64, count int64, err error)
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	// MarkNotificationRead reports false when no notification has the given id.
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
}

// Store groups every repository; the SQLite implementation satisfies it.
type Store interface {
	UserRepo
	WorkerRepo
	EmployerRepo
	SkillRepo
	PortfolioRepo
	JobRepo
	ApplicationRepo
	RatingRepo
	NotificationRepo
}
