package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/ustabul/pkg/models"
	"github.com/garnizeh/ustabul/pkg/repository/mock"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func rate(score int) models.RatingScores {
	return models.RatingScores{OverallScore: score}
}

func TestRecordRating_AverageSpansJobs(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()
	w := addWorker(store)
	e1, e2 := addEmployer(store), addEmployer(store)

	scores := []struct {
		from, job string
		score     int
	}{
		{e1.ID, "job-a", 5},
		{e2.ID, "job-b", 2},
		{e1.ID, "job-c", 4},
	}
	var sum int
	for i, sc := range scores {
		_, err := svc.RecordRating(ctx, sc.from, RatingInput{JobID: sc.job, ToUserID: w.ID, RatingScores: rate(sc.score)})
		require.NoError(t, err)
		sum += sc.score
		assert.InDelta(t, float64(sum)/float64(i+1), store.Workers[w.ID].AverageRating, 1e-9)
	}

	// ratings of someone else never leak into w's average
	_, err := svc.RecordRating(ctx, w.ID, RatingInput{JobID: "job-a", ToUserID: e1.ID, RatingScores: rate(1)})
	require.NoError(t, err)
	assert.InDelta(t, 11.0/3.0, store.Workers[w.ID].AverageRating, 1e-9)
	assert.InDelta(t, 1.0, store.Employers[e1.ID].AverageRating, 1e-9)
}

func TestRecordRating_DuplicatesAllowed(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()
	w := addWorker(store)
	e := addEmployer(store)

	for _, s := range []int{5, 1} {
		_, err := svc.RecordRating(ctx, e.ID, RatingInput{JobID: "same-job", ToUserID: w.ID, RatingScores: rate(s)})
		require.NoError(t, err)
	}
	assert.Len(t, store.Ratings, 2)
	assert.InDelta(t, 3.0, store.Workers[w.ID].AverageRating, 1e-9)
}

func TestRecordRating_ScoreBounds(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()
	w := addWorker(store)

	tests := []struct {
		score   int
		wantErr bool
	}{
		{0, true},
		{6, true},
		{-1, true},
		{1, false},
		{5, false},
	}
	for _, tt := range tests {
		_, err := svc.RecordRating(ctx, "rater", RatingInput{JobID: "j", ToUserID: w.ID, RatingScores: rate(tt.score)})
		if tt.wantErr {
			assert.ErrorIs(t, err, models.ErrInvalidScore, "score %d", tt.score)
		} else {
			assert.NoError(t, err, "score %d", tt.score)
		}
	}
	assert.Len(t, store.Ratings, 2)

	_, err := svc.RecordRating(ctx, "rater", RatingInput{JobID: "j", ToUserID: w.ID,
		RatingScores: models.RatingScores{OverallScore: 4, Professionalism: intp(9)}})
	assert.ErrorIs(t, err, models.ErrInvalidScore)

	_, err = svc.RecordRating(ctx, "rater", RatingInput{ToUserID: w.ID, RatingScores: rate(3)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// profileWritesFail fails every profile average update.
type profileWritesFail struct {
	*mock.Store
}

func (profileWritesFail) SetWorkerAverageRating(context.Context, string, float64) error {
	return errors.New("worker profile written")
}

func (profileWritesFail) SetEmployerAverageRating(context.Context, string, float64) error {
	return errors.New("employer profile written")
}

func TestRecordRating_AdminAndUnknownTargets(t *testing.T) {
	store := mock.NewStore()
	svc := newServiceOn(t, profileWritesFail{Store: store}, Options{})
	ctx := context.Background()
	admin := addUser(store, models.RoleAdmin)

	_, err := svc.RecordRating(ctx, "rater", RatingInput{JobID: "j", ToUserID: admin.ID, RatingScores: rate(4)})
	require.NoError(t, err)
	_, err = svc.RecordRating(ctx, "rater", RatingInput{JobID: "j", ToUserID: "ghost", RatingScores: rate(2)})
	require.NoError(t, err)

	assert.Len(t, store.Ratings, 2)
	avg, err := svc.AverageRating(ctx, admin.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)
}

func TestAverageRating_EmptyIsZero(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	avg, err := svc.AverageRating(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestRecordRating_KeepsDirectionFields(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()
	w := addWorker(store)
	e := addEmployer(store)

	all := models.RatingScores{
		OverallScore:         4,
		PaymentMade:          boolp(true),
		WorkplaceSafety:      intp(4),
		CommunicationQuality: intp(5),
		TechnicalCompetence:  intp(5),
		OnTime:               boolp(true),
		SafetyCompliance:     intp(4),
		Professionalism:      intp(5),
	}

	toWorker, err := svc.RecordRating(ctx, e.ID, RatingInput{JobID: "j", ToUserID: w.ID, RatingScores: all})
	require.NoError(t, err)
	assert.Nil(t, toWorker.PaymentMade)
	assert.Nil(t, toWorker.WorkplaceSafety)
	assert.Nil(t, toWorker.CommunicationQuality)
	assert.NotNil(t, toWorker.TechnicalCompetence)
	assert.NotNil(t, toWorker.OnTime)

	toEmployer, err := svc.RecordRating(ctx, w.ID, RatingInput{JobID: "j", ToUserID: e.ID, RatingScores: all})
	require.NoError(t, err)
	assert.NotNil(t, toEmployer.PaymentMade)
	assert.NotNil(t, toEmployer.CommunicationQuality)
	assert.Nil(t, toEmployer.TechnicalCompetence)
	assert.Nil(t, toEmployer.OnTime)
	assert.Nil(t, toEmployer.SafetyCompliance)
	assert.Nil(t, toEmployer.Professionalism)
}

func TestRecordRating_ConcurrentSameTarget(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()
	w := addWorker(store)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, _ = svc.RecordRating(ctx, "rater", RatingInput{JobID: "j", ToUserID: w.ID, RatingScores: rate(score)})
		}(i%5 + 1)
	}
	wg.Wait()

	// 6 of each score 1..5
	assert.Len(t, store.Ratings, 30)
	assert.InDelta(t, 3.0, store.Workers[w.ID].AverageRating, 1e-9)
}

func TestListRatings(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()
	w := addWorker(store)

	for _, s := range []int{1, 2, 3} {
		_, err := svc.RecordRating(ctx, "rater", RatingInput{JobID: "j", ToUserID: w.ID, RatingScores: rate(s)})
		require.NoError(t, err)
	}
	list, err := svc.ListRatings(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].OverallScore)
}

func TestNotifications(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()
	e := addEmployer(store)
	j := addJob(store, e.ID, models.JobOpen)
	for i := 0; i < 2; i++ {
		_, err := svc.Apply(ctx, j.ID, addWorker(store).ID)
		require.NoError(t, err)
	}

	list, err := svc.ListNotifications(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	w := addWorker(store)
	assert.ErrorIs(t, svc.MarkNotificationRead(ctx, list[0].ID, w.ID, models.RoleWorker), models.ErrForbidden)
	unread, err := svc.ListNotifications(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, unread[0].IsRead)

	require.NoError(t, svc.MarkNotificationRead(ctx, list[0].ID, e.ID, models.RoleEmployer))
	after, err := svc.ListNotifications(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, after[0].IsRead)
	assert.False(t, after[1].IsRead)

	require.NoError(t, svc.MarkNotificationRead(ctx, list[1].ID, "admin-1", models.RoleAdmin))
	assert.ErrorIs(t, svc.MarkNotificationRead(ctx, "missing", e.ID, models.RoleEmployer), models.ErrNotFound)
}
