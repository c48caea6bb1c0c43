package services

import (
	"testing"

	"chartkeep/internal/models"
	"chartkeep/internal/repository"
	"chartkeep/internal/testutil"

	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (*gorm.DB, *repository.AccountRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	repo, err := repository.New(repository.NewGormStore(db))
	testutil.AssertNoError(t, err)
	return db, repo
}

func mustCreate(t *testing.T, repo *repository.AccountRepository, account models.Account) *models.Account {
	t.Helper()
	created, err := repo.Create(&account)
	testutil.AssertNoError(t, err)
	return created
}
