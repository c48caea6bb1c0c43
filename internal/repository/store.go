package repository

import (
	"errors"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/models"

	"gorm.io/gorm"
)

// Store is the backing store the repository mediates. The repository applies
// every mutation to its in-memory snapshot first and rolls back when the
// store call fails. Merge spans two accounts and three writes, so the store
// must commit it atomically; everything else is plain CRUD.
type Store interface {
	ListAccounts() ([]models.Account, error)
	CreateAccount(account *models.Account) error
	UpdateAccount(id string, fields map[string]interface{}) (*models.Account, error)
	DeleteAccount(id string) error
	MergeAccounts(sourceID, targetID string) error
	ListActivity() ([]models.AccountActivity, error)
	GetActivity(accountID string) (*models.AccountActivity, error)
}

// gormStore persists accounts through GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given GORM database.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("code, name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

func (s *gormStore) CreateAccount(account *models.Account) error {
	if err := s.db.Create(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *gormStore) UpdateAccount(id string, fields map[string]interface{}) (*models.Account, error) {
	result := s.db.Model(&models.Account{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrAccountNotFound
	}

	var account models.Account
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

func (s *gormStore) DeleteAccount(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Account{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// MergeAccounts transfers the source balance to the target and removes the
// source in a single transaction, so a failure leaves the store untouched.
func (s *gormStore) MergeAccounts(sourceID, targetID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var source models.Account
		if err := tx.Where("id = ?", sourceID).First(&source).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAccountNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", sourceID).
			Update("balance", 0).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ?", sourceID).Delete(&models.Account{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result := tx.Model(&models.Account{}).Where("id = ?", targetID).
			Update("balance", gorm.Expr("balance + ?", source.Balance))
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrAccountNotFound
		}
		return nil
	})
}

func (s *gormStore) ListActivity() ([]models.AccountActivity, error) {
	var rows []models.AccountActivity
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

func (s *gormStore) GetActivity(accountID string) (*models.AccountActivity, error) {
	var row models.AccountActivity
	if err := s.db.Where("account_id = ?", accountID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}
