package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/ustabul/pkg/models"
	"github.com/garnizeh/ustabul/pkg/repository"
)

var _ repository.Store = (*Store)(nil)

// Store is an in-memory repository.Store for tests. Set the *Err fields to
// force the matching method to fail.
type Store struct {
	mu sync.Mutex

	Users         map[string]*models.User
	Workers       map[string]*models.WorkerProfile
	Employers     map[string]*models.EmployerProfile
	Categories    []models.SkillCategory
	Skills        []models.WorkerSkill
	Portfolio     []models.PortfolioItem
	Jobs          map[string]*models.Job
	Applications  map[string]*models.Application
	Ratings       []models.Rating
	Notifications []models.Notification

	CreateUserErr         error
	CreateNotificationErr error
	SetJobStatusErr       error
}

func NewStore() *Store {
	return &Store{
		Users:        map[string]*models.User{},
		Workers:      map[string]*models.WorkerProfile{},
		Employers:    map[string]*models.EmployerProfile{},
		Jobs:         map[string]*models.Job{},
		Applications: map[string]*models.Application{},
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// User methods

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateUserErr != nil {
		return s.CreateUserErr
	}
	for _, existing := range s.Users {
		if existing.Username == u.Username {
			return models.ErrDuplicateUsername
		}
	}
	s.Users[u.ID] = clone(u)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.Users[id]), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[id]; ok {
		now := nowUTC()
		u.LastLogin = &now
	}
	return nil
}

// Worker methods

func (s *Store) CreateWorkerProfile(ctx context.Context, p *models.WorkerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Workers[p.UserID]; ok {
		return models.ErrInvalidInput
	}
	s.Workers[p.UserID] = clone(p)
	return nil
}

func (s *Store) GetWorkerProfile(ctx context.Context, userID string) (*models.WorkerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.Workers[userID]), nil
}

func (s *Store) ListWorkerProfiles(ctx context.Context, limit, offset int) ([]models.WorkerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WorkerProfile{}
	for _, p := range s.Workers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return page(out, limit, offset), nil
}

func (s *Store) SetWorkerAverageRating(ctx context.Context, userID string, avg float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Workers[userID]; ok {
		p.AverageRating = avg
	}
	return nil
}

func (s *Store) AddWorkerSkill(ctx context.Context, sk *models.WorkerSkill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Skills = append(s.Skills, *sk)
	return nil
}

func (s *Store) ListWorkerSkills(ctx context.Context, workerID string) ([]models.WorkerSkill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WorkerSkill{}
	for _, sk := range s.Skills {
		if sk.WorkerID == workerID {
			out = append(out, sk)
		}
	}
	return out, nil
}

// Employer methods

func (s *Store) CreateEmployerProfile(ctx context.Context, p *models.EmployerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Employers[p.UserID]; ok {
		return models.ErrInvalidInput
	}
	s.Employers[p.UserID] = clone(p)
	return nil
}

func (s *Store) GetEmployerProfile(ctx context.Context, userID string) (*models.EmployerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.Employers[userID]), nil
}

func (s *Store) ListEmployerProfiles(ctx context.Context, limit, offset int) ([]models.EmployerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.EmployerProfile{}
	for _, p := range s.Employers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return page(out, limit, offset), nil
}

func (s *Store) SetEmployerAverageRating(ctx context.Context, userID string, avg float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Employers[userID]; ok {
		p.AverageRating = avg
	}
	return nil
}

func (s *Store) IncrementJobsPosted(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Employers[userID]; ok {
		p.TotalJobsPosted++
	}
	return nil
}

// Skill methods

func (s *Store) CreateCategory(ctx context.Context, c *models.SkillCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Categories = append(s.Categories, *c)
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.SkillCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return clone(&s.Categories[i]), nil
		}
	}
	return nil, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.SkillCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.SkillCategory{}, s.Categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

// Portfolio methods

func (s *Store) CreatePortfolioItem(ctx context.Context, p *models.PortfolioItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Portfolio = append(s.Portfolio, *p)
	return nil
}

func (s *Store) GetPortfolioItemByHash(ctx context.Context, hash string) (*models.PortfolioItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Portfolio {
		if s.Portfolio[i].ImageHash == hash {
			return clone(&s.Portfolio[i]), nil
		}
	}
	return nil, nil
}

func (s *Store) ListPortfolioByWorker(ctx context.Context, workerID string) ([]models.PortfolioItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.PortfolioItem{}
	for _, p := range s.Portfolio {
		if p.WorkerID == workerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Job methods

func (s *Store) CreateJob(ctx context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Jobs[j.ID] = clone(j)
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.Jobs[id]), nil
}

func (s *Store) ListJobs(ctx context.Context, status models.JobStatus, limit, offset int) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Job{}
	for _, j := range s.Jobs {
		if status == "" || j.Status == status {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (s *Store) IncrementViewCount(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.Jobs[id]
	if !ok {
		return false, nil
	}
	j.ViewCount++
	return true, nil
}

func (s *Store) SetJobStatus(ctx context.Context, id string, from, to models.JobStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetJobStatusErr != nil {
		return false, s.SetJobStatusErr
	}
	j, ok := s.Jobs[id]
	if !ok || j.Status != from {
		return false, nil
	}
	j.Status = to
	return true, nil
}

func (s *Store) ListExpiredOpenJobs(ctx context.Context, beforeMillis int64) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Job{}
	for _, j := range s.Jobs {
		if j.Status == models.JobOpen && j.ExpiresAt.UnixMilli() < beforeMillis {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

// Application methods

func (s *Store) CreateApplication(ctx context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Applications {
		if existing.JobID == a.JobID && existing.WorkerID == a.WorkerID {
			return models.ErrDuplicateApplication
		}
	}
	s.Applications[a.ID] = clone(a)
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.Applications[id]), nil
}

func (s *Store) FindApplication(ctx context.Context, jobID, workerID string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.Applications {
		if a.JobID == jobID && a.WorkerID == workerID {
			return clone(a), nil
		}
	}
	return nil, nil
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Application{}
	for _, a := range s.Applications {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.Before(out[j].AppliedAt) })
	return out, nil
}

func (s *Store) UpdateApplication(ctx context.Context, a *models.Application, from models.ApplicationStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.Applications[a.ID]
	if !ok || cur.Status != from {
		return false, nil
	}
	s.Applications[a.ID] = clone(a)
	return true, nil
}

// Rating methods

func (s *Store) CreateRating(ctx context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ratings = append(s.Ratings, *r)
	return nil
}

func (s *Store) ListRatingsForUser(ctx context.Context, userID string, limit int) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Rating{}
	for i := len(s.Ratings) - 1; i >= 0 && len(out) < limit; i-- {
		if s.Ratings[i].ToUserID == userID {
			out = append(out, s.Ratings[i])
		}
	}
	return out, nil
}

func (s *Store) RatingStats(ctx context.Context, userID string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum, count int64
	for _, r := range s.Ratings {
		if r.ToUserID == userID {
			sum += int64(r.OverallScore)
			count++
		}
	}
	return sum, count, nil
}

// Notification methods

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateNotificationErr != nil {
		return s.CreateNotificationErr
	}
	s.Notifications = append(s.Notifications, *n)
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Notification{}
	for i := len(s.Notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if s.Notifications[i].UserID == userID {
			out = append(out, s.Notifications[i])
		}
	}
	return out, nil
}

func (s *Store) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.Notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Notifications {
		if s.Notifications[i].ID == id {
			s.Notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

// NotificationsFor returns a snapshot of the notifications addressed to userID, oldest first.
func (s *Store) NotificationsFor(userID string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func nowUTC() time.Time { return time.Now().UTC() }

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
