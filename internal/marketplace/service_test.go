package marketplace

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/internal/media"
	"github.com/garnizeh/ustabul/internal/notify"
	"github.com/garnizeh/ustabul/pkg/models"
	"github.com/garnizeh/ustabul/pkg/repository"
	"github.com/garnizeh/ustabul/pkg/repository/mock"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts Options) (*Service, *mock.Store) {
	t.Helper()

	store := mock.NewStore()
	return newServiceOn(t, store, opts), store
}

func newServiceOn(t *testing.T, store repository.Store, opts Options) *Service {
	t.Helper()

	ms, err := media.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	svc := New(store, notify.New(store, nil, nil), auth.NewIssuer("test-secret", 7*24*time.Hour), ms, opts, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

// pausingStore holds each GetApplication or GetJob call until every expected
// reader has arrived, so concurrent callers all see the same state before
// any of them writes. A nil group disables the pause for that method.
type pausingStore struct {
	*mock.Store
	appReads *sync.WaitGroup
	jobReads *sync.WaitGroup
}

func (p *pausingStore) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	a, err := p.Store.GetApplication(ctx, id)
	if p.appReads != nil {
		p.appReads.Done()
		p.appReads.Wait()
	}
	return a, err
}

func (p *pausingStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	j, err := p.Store.GetJob(ctx, id)
	if p.jobReads != nil {
		p.jobReads.Done()
		p.jobReads.Wait()
	}
	return j, err
}

func readers(n int) *sync.WaitGroup {
	wg := &sync.WaitGroup{}
	wg.Add(n)
	return wg
}

// addUser inserts an active account directly, skipping password hashing.
func addUser(store *mock.Store, role models.Role) *models.User {
	u := &models.User{
		ID:        uuid.NewString(),
		Username:  string(role) + "-" + uuid.NewString()[:8],
		Role:      role,
		Status:    models.AccountActive,
		CreatedAt: testNow,
	}
	store.Users[u.ID] = u
	return u
}

func addWorker(store *mock.Store) *models.User {
	u := addUser(store, models.RoleWorker)
	store.Workers[u.ID] = &models.WorkerProfile{UserID: u.ID, FirstName: "Ali", LastName: "Usta", CertificateStatus: models.CertificateNone}
	return u
}

func addEmployer(store *mock.Store) *models.User {
	u := addUser(store, models.RoleEmployer)
	store.Employers[u.ID] = &models.EmployerProfile{UserID: u.ID, CompanyName: "Demir AŞ", PaymentReliabilityScore: 5}
	return u
}

func addJob(store *mock.Store, employerID string, status models.JobStatus) *models.Job {
	j := &models.Job{
		ID:             uuid.NewString(),
		EmployerID:     employerID,
		Title:          "Kaynakçı aranıyor",
		RequiredSkills: []string{},
		StartDate:      testNow.Add(24 * time.Hour),
		EndDate:        testNow.Add(72 * time.Hour),
		Status:         status,
		CreatedAt:      testNow,
		ExpiresAt:      testNow.Add(30 * 24 * time.Hour),
	}
	store.Jobs[j.ID] = j
	return j
}

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		in   Page
		want Page
	}{
		{Page{}, Page{Skip: 0, Limit: DefaultPageSize}},
		{Page{Skip: -3, Limit: -1}, Page{Skip: 0, Limit: DefaultPageSize}},
		{Page{Skip: 10, Limit: 5}, Page{Skip: 10, Limit: 5}},
		{Page{Limit: 5000}, Page{Limit: MaxPageSize}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.normalize())
	}
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	var k keyedMutex
	unlock := k.Lock("a")
	unlock2 := k.Lock("b")
	unlock()
	unlock2()
	assert.Empty(t, k.locks)
}
