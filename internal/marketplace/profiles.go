package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/garnizeh/ustabul/pkg/models"
)

type WorkerProfileInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	BirthYear   int    `json:"birth_year"`
	City        string `json:"city"`
	District    string `json:"district"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type EmployerProfileInput struct {
	CompanyName string  `json:"company_name"`
	TaxNumber   *string `json:"tax_number,omitempty"`
	Sector      string  `json:"sector"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	Address     string  `json:"address"`
}

type WorkerSkillInput struct {
	SkillCategoryID   string `json:"skill_category_id"`
	YearsOfExperience int    `json:"years_of_experience"`
	IsPrimary         bool   `json:"is_primary"`
}

// CreateWorkerProfile attaches the single worker profile of a worker account.
func (s *Service) CreateWorkerProfile(ctx context.Context, userID string, in WorkerProfileInput) (*models.WorkerProfile, error) {
	if _, err := s.userWithRole(ctx, userID, models.RoleWorker); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("first and last name are required: %w", models.ErrInvalidInput)
	}
	if in.BirthYear < 1900 || in.BirthYear > s.now().Year() {
		return nil, fmt.Errorf("birth year %d out of range: %w", in.BirthYear, models.ErrInvalidInput)
	}

	p := &models.WorkerProfile{
		UserID:            userID,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		BirthYear:         in.BirthYear,
		City:              in.City,
		District:          in.District,
		IsAnonymous:       in.IsAnonymous,
		CertificateStatus: models.CertificateNone,
	}
	if err := s.store.CreateWorkerProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetWorkerProfile(ctx context.Context, userID string) (*models.WorkerProfile, error) {
	p, err := s.store.GetWorkerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("worker %s: %w", userID, models.ErrNotFound)
	}
	return p, nil
}

func (s *Service) ListWorkerProfiles(ctx context.Context, page Page) ([]models.WorkerProfile, error) {
	page = page.normalize()
	return s.store.ListWorkerProfiles(ctx, page.Limit, page.Skip)
}

// CreateEmployerProfile attaches the single employer profile of an employer
// account. Payment reliability starts at 5.0.
func (s *Service) CreateEmployerProfile(ctx context.Context, userID string, in EmployerProfileInput) (*models.EmployerProfile, error) {
	if _, err := s.userWithRole(ctx, userID, models.RoleEmployer); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, fmt.Errorf("company name is required: %w", models.ErrInvalidInput)
	}

	p := &models.EmployerProfile{
		UserID:                  userID,
		CompanyName:             in.CompanyName,
		TaxNumber:               in.TaxNumber,
		Sector:                  in.Sector,
		City:                    in.City,
		District:                in.District,
		Address:                 in.Address,
		PaymentReliabilityScore: 5.0,
	}
	if err := s.store.CreateEmployerProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetEmployerProfile(ctx context.Context, userID string) (*models.EmployerProfile, error) {
	p, err := s.store.GetEmployerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("employer %s: %w", userID, models.ErrNotFound)
	}
	return p, nil
}

func (s *Service) ListEmployerProfiles(ctx context.Context, page Page) ([]models.EmployerProfile, error) {
	page = page.normalize()
	return s.store.ListEmployerProfiles(ctx, page.Limit, page.Skip)
}

// AddWorkerSkill records experience in a taxonomy category for a worker.
func (s *Service) AddWorkerSkill(ctx context.Context, workerID string, in WorkerSkillInput) (*models.WorkerSkill, error) {
	if _, err := s.userWithRole(ctx, workerID, models.RoleWorker); err != nil {
		return nil, err
	}
	if in.YearsOfExperience < 0 {
		return nil, fmt.Errorf("years of experience must not be negative: %w", models.ErrInvalidInput)
	}

	cat, err := s.store.GetCategory(ctx, in.SkillCategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("skill category %s: %w", in.SkillCategoryID, models.ErrNotFound)
	}

	sk := &models.WorkerSkill{
		WorkerID:          workerID,
		SkillCategoryID:   cat.ID,
		YearsOfExperience: in.YearsOfExperience,
		IsPrimary:         in.IsPrimary,
		AddedAt:           s.now(),
	}
	if err := s.store.AddWorkerSkill(ctx, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

func (s *Service) ListWorkerSkills(ctx context.Context, workerID string) ([]models.WorkerSkill, error) {
	return s.store.ListWorkerSkills(ctx, workerID)
}

// userWithRole loads a user and checks its role, mapping a missing user to
// ErrNotFound and a role mismatch to ErrForbidden.
func (s *Service) userWithRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch u.Role {
	case role:
		return u, nil
	case models.RoleWorker, models.RoleEmployer, models.RoleAdmin:
		return nil, fmt.Errorf("user %s is %s, not %s: %w", userID, u.Role, role, models.ErrForbidden)
	}
	return nil, fmt.Errorf("user %s has unknown role %q: %w", userID, u.Role, models.ErrForbidden)
}
