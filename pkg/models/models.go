package models

import "time"

// Domain models matching the tables in db/migrations/0001_init.sql

type User struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"account_status"`
	CreatedAt    time.Time     `json:"created_at"`
	LastLogin    *time.Time    `json:"last_login,omitempty"`
}

type WorkerProfile struct {
	UserID              string            `json:"user_id"`
	FirstName           string            `json:"first_name"`
	LastName            string            `json:"last_name"`
	BirthYear           int               `json:"birth_year"`
	City                string            `json:"city"`
	District            string            `json:"district"`
	IsAnonymous         bool              `json:"is_anonymous"`
	CertificateStatus   CertificateStatus `json:"certificate_status"`
	CertificatePhotoURL *string           `json:"certificate_photo_url,omitempty"`
	GhostingCount       int               `json:"ghosting_count"`
	RejectedJobCount    int               `json:"rejected_job_count"`
	TotalJobsCompleted  int               `json:"total_jobs_completed"`
	AverageRating       float64           `json:"average_rating"`
}

type EmployerProfile struct {
	UserID                  string  `json:"user_id"`
	CompanyName             string  `json:"company_name"`
	TaxNumber               *string `json:"tax_number,omitempty"`
	Sector                  string  `json:"sector"`
	City                    string  `json:"city"`
	District                string  `json:"district"`
	Address                 string  `json:"address"`
	PaymentReliabilityScore float64 `json:"payment_reliability_score"`
	CancellationCount       int     `json:"cancellation_count"`
	TotalJobsPosted         int     `json:"total_jobs_posted"`
	AverageRating           float64 `json:"average_rating"`
}

type SkillCategory struct {
	ID           string        `json:"id"`
	ParentID     *string       `json:"parent_id"`
	Name         string        `json:"category_name"`
	Level        CategoryLevel `json:"category_level"`
	DisplayOrder int           `json:"display_order"`
}

type WorkerSkill struct {
	WorkerID          string    `json:"worker_id"`
	SkillCategoryID   string    `json:"skill_category_id"`
	YearsOfExperience int       `json:"years_of_experience"`
	IsPrimary         bool      `json:"is_primary"`
	AddedAt           time.Time `json:"added_at"`
}

type PortfolioItem struct {
	ID                 string             `json:"id"`
	WorkerID           string             `json:"worker_id"`
	PhotoURL           string             `json:"photo_url"`
	ThumbnailURL       string             `json:"thumbnail_url"`
	Description        string             `json:"description"`
	MaterialTag        string             `json:"material_tag"`
	TechniqueTag       string             `json:"technique_tag"`
	VerificationSource VerificationSource `json:"verification_source"`
	IsVerifiedShot     bool               `json:"is_verified_shot"`
	HasExifData        bool               `json:"has_exif_data"`
	ImageHash          string             `json:"image_hash"`
	UploadDate         time.Time          `json:"upload_date"`
	ViewCount          int                `json:"view_count"`
	LikeCount          int                `json:"like_count"`
}

type Job struct {
	ID             string    `json:"id"`
	EmployerID     string    `json:"employer_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"required_skills"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	BudgetInfo     *string   `json:"budget_info,omitempty"`
	Status         JobStatus `json:"job_status"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	ViewCount      int64     `json:"view_count"`
}

type Application struct {
	ID               string            `json:"id"`
	JobID            string            `json:"job_id"`
	WorkerID         string            `json:"worker_id"`
	Status           ApplicationStatus `json:"status"`
	AppliedAt        time.Time         `json:"applied_at"`
	RespondedAt      *time.Time        `json:"responded_at,omitempty"`
	WithdrawalReason *string           `json:"withdrawal_reason,omitempty"`
}

// RatingScores carries the score fields supplied by the rater. Which of the
// optional fields are kept depends on the rating direction.
type RatingScores struct {
	OverallScore int     `json:"overall_score"`
	Comment      *string `json:"comment,omitempty"`

	// worker -> employer
	PaymentMade          *bool `json:"payment_made,omitempty"`
	WorkplaceSafety      *int  `json:"workplace_safety,omitempty"`
	CommunicationQuality *int  `json:"communication_quality,omitempty"`

	// employer -> worker
	TechnicalCompetence *int  `json:"technical_competence,omitempty"`
	OnTime              *bool `json:"on_time,omitempty"`
	SafetyCompliance    *int  `json:"safety_compliance,omitempty"`
	Professionalism     *int  `json:"professionalism,omitempty"`
}

type Rating struct {
	ID         string `json:"id"`
	JobID      string `json:"job_id"`
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	RatingScores
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	RelatedJobID *string          `json:"related_job_id,omitempty"`
	IsRead       bool             `json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
}
