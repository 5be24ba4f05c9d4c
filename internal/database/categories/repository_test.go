package categories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database"
	"github.com/mrlokans/til/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "categories.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Migrate(database.AdminSeed{Username: "admin", PasswordHash: "hash"})
	require.NoError(t, err)

	return NewRepository(db.DB), db.DB
}

func createAcronym(t *testing.T, db *gorm.DB, short string, categories ...*entities.Category) *entities.Acronym {
	t.Helper()
	var admin entities.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)

	acronym := &entities.Acronym{Short: short, Long: short + " long", UserID: admin.ID}
	require.NoError(t, db.Omit("User", "Categories").Create(acronym).Error)
	for _, c := range categories {
		require.NoError(t, db.Model(acronym).Association("Categories").Append(c))
	}
	return acronym
}

func TestRepository_GetOrCreate_New(t *testing.T) {
	repo, _ := setupTestDB(t)

	category, err := repo.GetOrCreate("Teenager")

	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Teenager", category.Name)
}

func TestRepository_GetOrCreate_Existing(t *testing.T) {
	repo, _ := setupTestDB(t)

	first, err := repo.GetOrCreate("Funny")
	require.NoError(t, err)

	second, err := repo.GetOrCreate("Funny")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetOrCreate_IsCaseSensitive(t *testing.T) {
	repo, _ := setupTestDB(t)

	lower, err := repo.GetOrCreate("funny")
	require.NoError(t, err)
	upper, err := repo.GetOrCreate("Funny")
	require.NoError(t, err)

	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetAcronyms(t *testing.T) {
	repo, db := setupTestDB(t)

	funny, err := repo.GetOrCreate("Funny")
	require.NoError(t, err)
	createAcronym(t, db, "OMG", funny)
	createAcronym(t, db, "LOL", funny)
	createAcronym(t, db, "IKR")

	acronyms, err := repo.GetAcronyms(funny.ID)
	require.NoError(t, err)
	require.Len(t, acronyms, 2)
	assert.Equal(t, "OMG", acronyms[0].Short)
	assert.Equal(t, "LOL", acronyms[1].Short)

	_, err = repo.GetAcronyms(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteOrphanCategories(t *testing.T) {
	repo, db := setupTestDB(t)

	used, err := repo.GetOrCreate("Used")
	require.NoError(t, err)
	_, err = repo.GetOrCreate("Orphan")
	require.NoError(t, err)
	createAcronym(t, db, "OMG", used)

	deleted, err := repo.DeleteOrphanCategories()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Used", all[0].Name)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name       string
		existing   []string
		desired    []string
		wantAdd    []string
		wantRemove []string
	}{
		{
			name:       "replace one category",
			existing:   []string{"A", "B"},
			desired:    []string{"B", "C"},
			wantAdd:    []string{"C"},
			wantRemove: []string{"A"},
		},
		{
			name:     "unchanged",
			existing: []string{"A", "B"},
			desired:  []string{"B", "A"},
		},
		{
			name:     "add to empty",
			existing: nil,
			desired:  []string{"A", "A", ""},
			wantAdd:  []string{"A"},
		},
		{
			name:       "clear all",
			existing:   []string{"A", "B"},
			desired:    nil,
			wantRemove: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toRemove := Diff(tt.existing, tt.desired)
			assert.Equal(t, tt.wantAdd, toAdd)
			assert.Equal(t, tt.wantRemove, toRemove)
		})
	}
}
