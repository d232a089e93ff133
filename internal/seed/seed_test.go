package seed_test

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/ustabul/db"
	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/internal/notify"
	"github.com/garnizeh/ustabul/internal/seed"
	"github.com/garnizeh/ustabul/pkg/models"
	"github.com/garnizeh/ustabul/pkg/repository/mock"
)

func newSeeder() (*seed.Seeder, *marketplace.Service, *mock.Store) {
	store := mock.NewStore()
	svc := marketplace.New(store, notify.New(store, nil, nil), auth.NewIssuer("s", time.Hour), nil, marketplace.Options{}, nil)
	return seed.New(svc, nil), svc, store
}

func TestAll_EmbeddedFiles(t *testing.T) {
	s, svc, store := newSeeder()
	ctx := context.Background()

	require.NoError(t, s.All(ctx, db.SeedFiles, true))

	tree, err := svc.CategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 4)
	assert.Equal(t, "Metal İşleri", tree[0].Name)
	assert.Equal(t, "Bakım & Onarım", tree[3].Name)
	require.Len(t, tree[0].Children, 5)
	assert.Equal(t, "Kaynakçılık", tree[0].Children[0].Name)
	assert.Len(t, tree[0].Children[0].Children, 7)
	assert.Equal(t, models.LevelDetail, tree[0].Children[0].Children[0].Level)

	assert.Len(t, store.Users, 5)
	assert.Len(t, store.Workers, 3)
	assert.Len(t, store.Employers, 2)
	assert.Len(t, store.Jobs, 3)
	assert.Len(t, store.Ratings, 2)

	res, err := svc.Login(ctx, "mehmet_kaynakci", "123456")
	require.NoError(t, err)
	w, err := svc.GetWorkerProfile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, w.AverageRating, 1e-9)

	// running again leaves everything as is
	require.NoError(t, s.All(ctx, db.SeedFiles, true))
	assert.Len(t, store.Users, 5)
	assert.Len(t, store.Jobs, 3)
	flat, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, flat, len(store.Categories))
}

func TestTaxonomy_TooDeep(t *testing.T) {
	s, _, _ := newSeeder()
	deep := &seed.Taxonomy{Categories: []seed.Category{
		{Name: "a", Children: []seed.Category{
			{Name: "b", Children: []seed.Category{
				{Name: "c", Children: []seed.Category{{Name: "d"}}},
			}},
		}},
	}}
	_, err := s.Taxonomy(context.Background(), deep)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDemo_UnknownCategory(t *testing.T) {
	s, _, _ := newSeeder()
	fsys := fstest.MapFS{
		"seed/taxonomy.yaml": {Data: []byte("categories:\n  - name: Metal\n")},
		"seed/demo.yaml": {Data: []byte(`password: pw
workers:
  - username: w
    profile: {first_name: A, last_name: B, birth_year: 1990, city: C, district: D}
    skills:
      - category: Yok
        years: 1
`)},
	}
	err := s.All(context.Background(), fsys, true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	fsys := fstest.MapFS{"t.yaml": {Data: []byte("categoriez: []\n")}}
	var tx seed.Taxonomy
	assert.Error(t, seed.Load(fsys, "t.yaml", &tx))
}
