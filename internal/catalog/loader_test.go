// internal/catalog/loader_test.go
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobchaja-workers/internal/common/database"
	commonerrors "jobchaja-workers/internal/common/errors"
	"jobchaja-workers/internal/common/logger"
	"jobchaja-workers/internal/models"
)

const minimalCatalogJSON = `{
  "version": "test-1",
  "lastUpdated": "2026-08-01",
  "nationalities": ["VN", "CN"],
  "nationalityAliases": {"vietnam": "VN"},
  "entries": [
    {
      "code": "D-4",
      "category": "language-training",
      "nameKo": "어학연수 비자",
      "baseScore": 85,
      "eligibility": {},
      "goals": ["어학연수"]
    }
  ],
  "nodes": {
    "D-4": {
      "code": "D-4",
      "category": "language-training",
      "nameKo": "어학연수 (D-4)",
      "months": 12,
      "costWon": 8000000,
      "milestoneKo": "D-4 비자 취득"
    }
  },
  "transitions": {},
  "goalTerminals": {"어학연수": ["D-4"]},
  "rules": {
    "age": {"language-training": [{"maxAge": 99, "multiplier": 1.0}]},
    "nationality": {"language-training": {"default": 1.0}},
    "fund": {"language-training": {"300만원 미만": 1.0, "300-1000만원": 1.0, "1000-3000만원": 1.0, "3000만원 이상": 1.0}},
    "education": {"language-training": {"고졸 이하": 1.0, "전문학사": 1.0, "학사": 1.0, "석사": 1.0, "박사": 1.0}},
    "goalFit": {"어학연수": {"language-training": 1.0}},
    "priority": {"속도": {"language-training": 1.0}}
  }
}`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeCatalogFile(t, minimalCatalogJSON)

	cat, err := Load(context.Background(), &FileSource{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "test-1", cat.Version)
	assert.Equal(t, 1, cat.Size())
	assert.Equal(t, "D-4", cat.Entries[0].Code)
	assert.Equal(t, "VN", cat.NationalityAliases["vietnam"])
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), &FileSource{Path: filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeCatalogLoadFailed, stdErr.Code)
}

func TestLoadFromFile_SchemaViolation(t *testing.T) {
	// entries is required by the structural schema
	path := writeCatalogFile(t, `{"version": "x", "nationalities": ["VN"], "nodes": {}, "goalTerminals": {}, "rules": {}}`)

	_, err := Load(context.Background(), &FileSource{Path: path})
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeCatalogConfigInvalid, stdErr.Code)
}

func TestLoadFromFile_MalformedJSON(t *testing.T) {
	path := writeCatalogFile(t, `{"version": "x",`)

	_, err := Load(context.Background(), &FileSource{Path: path})
	require.Error(t, err)
}

func TestLoadFromPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT document").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte(minimalCatalogJSON)))

	source := &PostgresSource{DB: database.NewPostgresFromDB(db)}
	cat, err := Load(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, "test-1", cat.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFromPostgres_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT document").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	_, err = Load(context.Background(), &PostgresSource{DB: database.NewPostgresFromDB(db)})
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeCatalogLoadFailed, stdErr.Code)
}

func TestLoadProductionCatalog(t *testing.T) {
	cat, err := Load(context.Background(), &FileSource{Path: "../../configs/visa-catalog.json"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, cat.Size(), 7)
	assert.NotEmpty(t, cat.GoalTerminals[models.GoalResidency])
	for _, entry := range cat.Entries {
		_, ok := cat.Node(entry.Code)
		assert.True(t, ok, "entry %s must have a chain node", entry.Code)
	}
}

func decodeMinimal(t *testing.T) *models.VisaCatalog {
	t.Helper()
	path := writeCatalogFile(t, minimalCatalogJSON)
	cat, err := Load(context.Background(), &FileSource{Path: path})
	require.NoError(t, err)
	return cat
}

func TestVerify_ReferentialDefects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cat *models.VisaCatalog)
	}{
		{
			name: "entry without node",
			mutate: func(cat *models.VisaCatalog) {
				delete(cat.Nodes, "D-4")
			},
		},
		{
			name: "transition to unknown node",
			mutate: func(cat *models.VisaCatalog) {
				cat.Transitions["D-4"] = []string{"Z-9"}
			},
		},
		{
			name: "goal terminal without node",
			mutate: func(cat *models.VisaCatalog) {
				cat.GoalTerminals[models.GoalDegree] = []string{"Z-9"}
				cat.Rules.GoalFit[models.GoalDegree] = map[models.VisaCategory]float64{
					models.CategoryLanguageTraining: 1.0,
				}
			},
		},
		{
			name: "missing age bands",
			mutate: func(cat *models.VisaCatalog) {
				delete(cat.Rules.Age, models.CategoryLanguageTraining)
			},
		},
		{
			name: "age bands out of order",
			mutate: func(cat *models.VisaCatalog) {
				cat.Rules.Age[models.CategoryLanguageTraining] = []models.AgeBand{
					{MaxAge: 50, Multiplier: 1.0},
					{MaxAge: 30, Multiplier: 0.9},
				}
			},
		},
		{
			name: "missing goalFit row",
			mutate: func(cat *models.VisaCatalog) {
				delete(cat.Rules.GoalFit, models.GoalLanguageStudy)
			},
		},
		{
			name: "duplicate entry code",
			mutate: func(cat *models.VisaCatalog) {
				cat.Entries = append(cat.Entries, cat.Entries[0])
			},
		},
		{
			name: "unknown minEducation level",
			mutate: func(cat *models.VisaCatalog) {
				cat.Entries[0].Eligibility.MinEducation = "초졸"
			},
		},
		{
			name: "unknown minFund bucket",
			mutate: func(cat *models.VisaCatalog) {
				cat.Entries[0].Eligibility.MinFund = "5000만원 이상"
			},
		},
		{
			name: "unknown entry goal",
			mutate: func(cat *models.VisaCatalog) {
				cat.Entries[0].Goals = append(cat.Entries[0].Goals, "우주여행")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cat := decodeMinimal(t)
			tc.mutate(cat)
			assert.Error(t, verify(cat))
		})
	}
}

type captureTarget struct {
	last *models.VisaCatalog
}

func (c *captureTarget) SwapCatalog(cat *models.VisaCatalog) { c.last = cat }

func TestLoaderReload(t *testing.T) {
	path := writeCatalogFile(t, minimalCatalogJSON)
	target := &captureTarget{}
	loader := NewLoader(&FileSource{Path: path}, target, 0, logger.NewNoOpLogger())

	require.NoError(t, loader.Reload(context.Background()))
	require.NotNil(t, target.last)
	assert.Equal(t, "test-1", target.last.Version)
}

func TestLoaderReload_KeepsPreviousOnFailure(t *testing.T) {
	path := writeCatalogFile(t, minimalCatalogJSON)
	target := &captureTarget{}
	loader := NewLoader(&FileSource{Path: path}, target, 0, logger.NewNoOpLogger())
	require.NoError(t, loader.Reload(context.Background()))
	previous := target.last

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	require.Error(t, loader.Reload(context.Background()))
	assert.Same(t, previous, target.last)
}
