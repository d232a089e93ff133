// Package seed loads the skill taxonomy and demo accounts from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/pkg/models"
)

type Category struct {
	Name     string     `yaml:"name"`
	Children []Category `yaml:"children"`
}

type Taxonomy struct {
	Categories []Category `yaml:"categories"`
}

type Demo struct {
	Password  string         `yaml:"password"`
	Workers   []DemoWorker   `yaml:"workers"`
	Employers []DemoEmployer `yaml:"employers"`
	Jobs      []DemoJob      `yaml:"jobs"`
	Ratings   []DemoRating   `yaml:"ratings"`
}

type DemoWorker struct {
	Username string `yaml:"username"`
	Profile  struct {
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		BirthYear int    `yaml:"birth_year"`
		City      string `yaml:"city"`
		District  string `yaml:"district"`
	} `yaml:"profile"`
	Skills []struct {
		Category string `yaml:"category"`
		Years    int    `yaml:"years"`
		Primary  bool   `yaml:"primary"`
	} `yaml:"skills"`
}

type DemoEmployer struct {
	Username string `yaml:"username"`
	Profile  struct {
		CompanyName string  `yaml:"company_name"`
		TaxNumber   *string `yaml:"tax_number"`
		Sector      string  `yaml:"sector"`
		City        string  `yaml:"city"`
		District    string  `yaml:"district"`
		Address     string  `yaml:"address"`
	} `yaml:"profile"`
}

type DemoJob struct {
	Employer       string        `yaml:"employer"`
	Title          string        `yaml:"title"`
	Description    string        `yaml:"description"`
	RequiredSkills []string      `yaml:"required_skills"`
	StartsIn       time.Duration `yaml:"starts_in"`
	Duration       time.Duration `yaml:"duration"`
	BudgetInfo     *string       `yaml:"budget_info"`
}

type DemoRating struct {
	From                 string  `yaml:"from"`
	To                   string  `yaml:"to"`
	Job                  string  `yaml:"job"`
	OverallScore         int     `yaml:"overall_score"`
	Comment              *string `yaml:"comment"`
	PaymentMade          *bool   `yaml:"payment_made"`
	WorkplaceSafety      *int    `yaml:"workplace_safety"`
	CommunicationQuality *int    `yaml:"communication_quality"`
	TechnicalCompetence  *int    `yaml:"technical_competence"`
	OnTime               *bool   `yaml:"on_time"`
	SafetyCompliance     *int    `yaml:"safety_compliance"`
	Professionalism      *int    `yaml:"professionalism"`
}

// Load decodes a YAML document from fsys into out.
func Load(fsys fs.FS, name string, out any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

type Seeder struct {
	svc    *marketplace.Service
	logger *slog.Logger
}

func New(svc *marketplace.Service, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Seeder{svc: svc, logger: logger}
}

// Taxonomy inserts the category tree unless categories already exist. It
// returns the number of categories created.
func (s *Seeder) Taxonomy(ctx context.Context, t *Taxonomy) (int, error) {
	existing, err := s.svc.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.Info("taxonomy already seeded", slog.Int("categories", len(existing)))
		return 0, nil
	}

	levels := []models.CategoryLevel{models.LevelMain, models.LevelSub, models.LevelDetail}
	created := 0

	var insert func(parentID string, depth int, cats []Category) error
	insert = func(parentID string, depth int, cats []Category) error {
		if len(cats) > 0 && depth >= len(levels) {
			return fmt.Errorf("taxonomy deeper than %d levels under %s: %w", len(levels), parentID, models.ErrInvalidInput)
		}
		for i, c := range cats {
			node, err := s.svc.CreateCategory(ctx, parentID, c.Name, levels[depth], i+1)
			if err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
			created++
			if err := insert(node.ID, depth+1, c.Children); err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert("", 0, t.Categories); err != nil {
		return created, err
	}

	s.logger.Info("taxonomy seeded", slog.Int("categories", created))
	return created, nil
}

// Demo creates the demo accounts, their profiles, jobs and ratings. It is a
// no-op when the first demo account already exists.
func (s *Seeder) Demo(ctx context.Context, d *Demo) error {
	cats, err := s.svc.ListCategories(ctx)
	if err != nil {
		return err
	}
	categoryID := make(map[string]string, len(cats))
	for _, c := range cats {
		categoryID[c.Name] = c.ID
	}
	lookupCategory := func(name string) (string, error) {
		id, ok := categoryID[name]
		if !ok {
			return "", fmt.Errorf("unknown skill category %q: %w", name, models.ErrNotFound)
		}
		return id, nil
	}

	users := make(map[string]string)
	createUser := func(username string, role models.Role) (string, error) {
		u, err := s.svc.CreateUser(ctx, username, d.Password, role)
		if err != nil {
			return "", fmt.Errorf("user %s: %w", username, err)
		}
		users[username] = u.ID
		return u.ID, nil
	}

	for i, w := range d.Workers {
		id, err := createUser(w.Username, models.RoleWorker)
		if i == 0 && errors.Is(err, models.ErrDuplicateUsername) {
			s.logger.Info("demo data already seeded")
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := s.svc.CreateWorkerProfile(ctx, id, marketplace.WorkerProfileInput{
			FirstName: w.Profile.FirstName,
			LastName:  w.Profile.LastName,
			BirthYear: w.Profile.BirthYear,
			City:      w.Profile.City,
			District:  w.Profile.District,
		}); err != nil {
			return fmt.Errorf("worker profile %s: %w", w.Username, err)
		}

		for _, sk := range w.Skills {
			catID, err := lookupCategory(sk.Category)
			if err != nil {
				return err
			}
			if _, err := s.svc.AddWorkerSkill(ctx, id, marketplace.WorkerSkillInput{
				SkillCategoryID:   catID,
				YearsOfExperience: sk.Years,
				IsPrimary:         sk.Primary,
			}); err != nil {
				return fmt.Errorf("worker skill %s/%s: %w", w.Username, sk.Category, err)
			}
		}
	}

	for _, e := range d.Employers {
		id, err := createUser(e.Username, models.RoleEmployer)
		if err != nil {
			return err
		}
		if _, err := s.svc.CreateEmployerProfile(ctx, id, marketplace.EmployerProfileInput{
			CompanyName: e.Profile.CompanyName,
			TaxNumber:   e.Profile.TaxNumber,
			Sector:      e.Profile.Sector,
			City:        e.Profile.City,
			District:    e.Profile.District,
			Address:     e.Profile.Address,
		}); err != nil {
			return fmt.Errorf("employer profile %s: %w", e.Username, err)
		}
	}

	jobs := make(map[string]string)
	now := time.Now().UTC()
	for _, j := range d.Jobs {
		employerID, ok := users[j.Employer]
		if !ok {
			return fmt.Errorf("job %q: unknown employer %q: %w", j.Title, j.Employer, models.ErrNotFound)
		}
		skills := make([]string, 0, len(j.RequiredSkills))
		for _, name := range j.RequiredSkills {
			catID, err := lookupCategory(name)
			if err != nil {
				return err
			}
			skills = append(skills, catID)
		}

		start := now.Add(j.StartsIn)
		job, err := s.svc.CreateJob(ctx, employerID, marketplace.JobInput{
			Title:          j.Title,
			Description:    j.Description,
			RequiredSkills: skills,
			StartDate:      start,
			EndDate:        start.Add(j.Duration),
			BudgetInfo:     j.BudgetInfo,
		})
		if err != nil {
			return fmt.Errorf("job %q: %w", j.Title, err)
		}
		jobs[j.Title] = job.ID
	}

	for _, r := range d.Ratings {
		from, okFrom := users[r.From]
		to, okTo := users[r.To]
		jobID, okJob := jobs[r.Job]
		if !okFrom || !okTo || !okJob {
			return fmt.Errorf("rating %s -> %s: unknown user or job: %w", r.From, r.To, models.ErrNotFound)
		}
		if _, err := s.svc.RecordRating(ctx, from, marketplace.RatingInput{
			JobID:    jobID,
			ToUserID: to,
			RatingScores: models.RatingScores{
				OverallScore:         r.OverallScore,
				Comment:              r.Comment,
				PaymentMade:          r.PaymentMade,
				WorkplaceSafety:      r.WorkplaceSafety,
				CommunicationQuality: r.CommunicationQuality,
				TechnicalCompetence:  r.TechnicalCompetence,
				OnTime:               r.OnTime,
				SafetyCompliance:     r.SafetyCompliance,
				Professionalism:      r.Professionalism,
			},
		}); err != nil {
			return fmt.Errorf("rating %s -> %s: %w", r.From, r.To, err)
		}
	}

	s.logger.Info("demo data seeded",
		slog.Int("workers", len(d.Workers)),
		slog.Int("employers", len(d.Employers)),
		slog.Int("jobs", len(jobs)),
		slog.Int("ratings", len(d.Ratings)),
	)
	return nil
}

// All loads taxonomy.yaml and demo.yaml from fsys and seeds both.
func (s *Seeder) All(ctx context.Context, fsys fs.FS, withDemo bool) error {
	var t Taxonomy
	if err := Load(fsys, "seed/taxonomy.yaml", &t); err != nil {
		return err
	}
	if _, err := s.Taxonomy(ctx, &t); err != nil {
		return err
	}
	if !withDemo {
		return nil
	}

	var d Demo
	if err := Load(fsys, "seed/demo.yaml", &d); err != nil {
		return err
	}
	return s.Demo(ctx, &d)
}
