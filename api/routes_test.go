package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/ustabul/api"
	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/internal/config"
	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/internal/media"
	"github.com/garnizeh/ustabul/internal/notify"
	"github.com/garnizeh/ustabul/pkg/models"
	"github.com/garnizeh/ustabul/pkg/repository/mock"
)

type testServer struct {
	h      http.Handler
	store  *mock.Store
	issuer *auth.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		UploadDir:   dir,
		CORSOrigins: []string{"*"},
		Marketplace: config.Marketplace{JobLifetime: 30 * 24 * time.Hour, MaxUploadBytes: 1 << 20},
	}
	store := mock.NewStore()
	ms, err := media.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := marketplace.New(store, notify.New(store, nil, nil), issuer, ms, marketplace.Options{JobLifetime: cfg.Marketplace.JobLifetime}, nil)

	h, err := api.SetupRoutes(cfg, "1.0.0", "now", svc, issuer)
	require.NoError(t, err)
	return &testServer{h: h, store: store, issuer: issuer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its token and id.
func (s *testServer) register(t *testing.T, username string, role models.Role) (string, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username, "password": "123456", "role": role,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res marketplace.AuthResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "bearer", res.TokenType)
	return res.AccessToken, res.User.ID
}

type ratingSummary struct {
	AverageRating float64         `json:"average_rating"`
	Ratings       []models.Rating `json:"ratings"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "mehmet", models.RoleWorker)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"duplicate username", "/api/auth/register", map[string]any{"username": "mehmet", "password": "123456", "role": "worker"}, http.StatusConflict},
		{"admin self-register", "/api/auth/register", map[string]any{"username": "root", "password": "123456", "role": "admin"}, http.StatusForbidden},
		{"unknown role", "/api/auth/register", map[string]any{"username": "x", "password": "123456", "role": "boss"}, http.StatusBadRequest},
		{"missing password", "/api/auth/register", map[string]any{"username": "x", "role": "worker"}, http.StatusBadRequest},
		{"login ok", "/api/auth/login", map[string]any{"username": "mehmet", "password": "123456"}, http.StatusOK},
		{"login wrong password", "/api/auth/login", map[string]any{"username": "mehmet", "password": "654321"}, http.StatusUnauthorized},
		{"login unknown user", "/api/auth/login", map[string]any{"username": "nobody", "password": "123456"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestProtectedRoutesRequireTokenAndRole(t *testing.T) {
	s := newTestServer(t)
	workerToken, _ := s.register(t, "ali", models.RoleWorker)

	job := map[string]any{
		"title": "Kaynak", "description": "", "required_skills": []string{},
		"start_date": "2030-01-01T08:00:00Z", "end_date": "2030-01-05T17:00:00Z",
	}

	w := s.do(t, http.MethodPost, "/api/jobs", "", job)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/jobs", "not-a-token", job)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/jobs", workerToken, job)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJobApplicationFlow(t *testing.T) {
	s := newTestServer(t)
	empToken, empID := s.register(t, "abc_makina", models.RoleEmployer)
	workerToken, workerID := s.register(t, "mehmet_kaynakci", models.RoleWorker)

	w := s.do(t, http.MethodPost, "/api/employers/details", empToken, map[string]any{
		"company_name": "ABC Makina", "sector": "Makina", "city": "İstanbul", "district": "Tuzla", "address": "OSB",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/workers/details", workerToken, map[string]any{
		"first_name": "Mehmet", "last_name": "Yılmaz", "birth_year": 1985, "city": "İstanbul", "district": "Tuzla",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/jobs", empToken, map[string]any{
		"title": "TIG kaynakçı", "description": "Paslanmaz", "required_skills": []string{"tig"},
		"start_date": "2030-01-01T08:00:00Z", "end_date": "2030-01-05T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[models.Job](t, w)
	assert.Equal(t, models.JobOpen, job.Status)

	w = s.do(t, http.MethodGet, "/api/jobs/"+job.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[models.Job](t, w).ViewCount)

	w = s.do(t, http.MethodGet, "/api/jobs?status=open", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Job](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/jobs?status=paused", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/jobs/apply", workerToken, map[string]any{"job_id": job.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appID := decode[map[string]string](t, w)["id"]
	require.NotEmpty(t, appID)

	w = s.do(t, http.MethodPost, "/api/jobs/apply", workerToken, map[string]any{"job_id": job.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/jobs/"+job.ID+"/applications", empToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Application](t, w), 1)

	w = s.do(t, http.MethodPut, "/api/applications/"+appID+"/accept", empToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ApplicationAccepted, decode[models.Application](t, w).Status)
	assert.Equal(t, models.JobMatched, s.store.Jobs[job.ID].Status)

	w = s.do(t, http.MethodPut, "/api/applications/"+appID+"/withdraw", workerToken, map[string]any{"reason": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/notifications/"+workerID, workerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	inbox := decode[[]models.Notification](t, w)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifyApplicationAccepted, inbox[0].Type)

	w = s.do(t, http.MethodGet, "/api/notifications/"+workerID, empToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/api/notifications/"+inbox[0].ID+"/read", empToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, s.store.NotificationsFor(workerID)[0].IsRead)

	w = s.do(t, http.MethodPut, "/api/notifications/"+inbox[0].ID+"/read", workerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/notifications/missing/read", workerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/jobs/"+job.ID+"/status", empToken, map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/jobs/"+job.ID+"/status", empToken, map[string]any{"status": "open"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/ratings", empToken, map[string]any{"job_id": job.ID, "to_user_id": workerID, "overall_score": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/ratings", empToken, map[string]any{"job_id": job.ID, "to_user_id": workerID, "overall_score": 4, "on_time": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/ratings/user/"+workerID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[ratingSummary](t, w)
	assert.InDelta(t, 4.0, summary.AverageRating, 1e-9)
	require.Len(t, summary.Ratings, 1)
	assert.Equal(t, empID, summary.Ratings[0].FromUserID)
}

func TestWithdrawWithoutBody(t *testing.T) {
	s := newTestServer(t)
	empToken, _ := s.register(t, "def_metal", models.RoleEmployer)
	workerToken, _ := s.register(t, "ahmet_cnc", models.RoleWorker)

	w := s.do(t, http.MethodPost, "/api/jobs", empToken, map[string]any{
		"title": "CNC operatörü", "description": "", "required_skills": []string{},
		"start_date": "2030-02-01T08:00:00Z", "end_date": "2030-02-03T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[models.Job](t, w)

	w = s.do(t, http.MethodPost, "/api/jobs/apply", workerToken, map[string]any{"job_id": job.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	appID := decode[map[string]string](t, w)["id"]

	w = s.do(t, http.MethodPut, "/api/applications/"+appID+"/withdraw", workerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	a := decode[models.Application](t, w)
	assert.Equal(t, models.ApplicationWithdrawn, a.Status)
	assert.Nil(t, a.WithdrawalReason)
}

func TestWorkerSkillsOwnership(t *testing.T) {
	s := newTestServer(t)
	token, workerID := s.register(t, "ali_elektrik", models.RoleWorker)
	_, otherID := s.register(t, "veli", models.RoleWorker)
	s.store.Categories = append(s.store.Categories, models.SkillCategory{ID: "c1", Name: "Elektrik", Level: models.LevelMain})

	w := s.do(t, http.MethodPost, "/api/workers/"+otherID+"/skills", token, map[string]any{"skill_category_id": "c1", "years_of_experience": 3})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/workers/"+workerID+"/skills", token, map[string]any{"skill_category_id": "c1", "years_of_experience": 3, "is_primary": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/workers/"+workerID+"/skills", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.WorkerSkill](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/workers/"+workerID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/workers?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSkillCategoryTree(t *testing.T) {
	s := newTestServer(t)
	root := "root"
	s.store.Categories = []models.SkillCategory{
		{ID: root, Name: "Metal İşleri", Level: models.LevelMain},
		{ID: "weld", ParentID: &root, Name: "Kaynak", Level: models.LevelSub},
	}

	w := s.do(t, http.MethodGet, "/api/skills/categories/tree", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tree []struct {
		ID       string `json:"id"`
		Children []struct {
			ID string `json:"id"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "weld", tree[0].Children[0].ID)

	w = s.do(t, http.MethodGet, "/api/skills/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.SkillCategory](t, w), 2)
}

func uploadRequest(t *testing.T, token, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("verification_source", "camera"))
	require.NoError(t, mw.WriteField("material_tag", "paslanmaz"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestPortfolioUpload(t *testing.T) {
	s := newTestServer(t)
	token, workerID := s.register(t, "mehmet", models.RoleWorker)
	otherToken, _ := s.register(t, "ahmet", models.RoleWorker)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x01}, 64)...)

	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, uploadRequest(t, token, "kaynak.png", png))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.PortfolioItem](t, w)
	assert.True(t, item.IsVerifiedShot)
	assert.Equal(t, "paslanmaz", item.MaterialTag)

	w = httptest.NewRecorder()
	s.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, item.PhotoURL, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	for _, dir := range []string{"/uploads/", "/uploads/."} {
		w = httptest.NewRecorder()
		s.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, dir, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, dir)
		assert.NotContains(t, w.Body.String(), item.PhotoURL[len("/uploads/"):], dir)
	}

	w = httptest.NewRecorder()
	s.h.ServeHTTP(w, uploadRequest(t, otherToken, "copy.png", png))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	s.h.ServeHTTP(w, uploadRequest(t, token, "notes.txt", []byte("just some text")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	s.h.ServeHTTP(w, uploadRequest(t, token, "evil.html", []byte("<html><script>alert(1)</script></html>")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.True(t, strings.HasSuffix(item.PhotoURL, ".png"))

	w = s.do(t, http.MethodGet, "/api/portfolio/"+workerID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.PortfolioItem](t, w), 1)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	req.Header.Set("Origin", "https://ustabul.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
