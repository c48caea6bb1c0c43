package services

import (
	"fmt"
	"strings"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/models"
	"chartkeep/internal/repository"
)

// MergeStatus classifies a candidate merge pair.
type MergeStatus string

const (
	MergeBlocked MergeStatus = "blocked"
	MergeWarning MergeStatus = "warning"
	MergeReady   MergeStatus = "ready"
)

// MergeValidation is the transient validation result for a (source, target)
// pair. It is recomputed on every request and never persisted.
type MergeValidation struct {
	Status   MergeStatus `json:"status"`
	Blockers []string    `json:"blockers"`
	Warnings []string    `json:"warnings"`
}

// ValidateMerge evaluates every merge rule independently; all applicable
// blockers and warnings fire, not just the first.
func ValidateMerge(source, target models.Account) MergeValidation {
	v := MergeValidation{Blockers: []string{}, Warnings: []string{}}

	if source.IsProtected() {
		v.Blockers = append(v.Blockers, fmt.Sprintf("%q is a default account and cannot be merged", source.Name))
	}
	if target.IsProtected() {
		v.Blockers = append(v.Blockers, fmt.Sprintf("%q is a default account and cannot be merged into", target.Name))
	}
	if !source.IsActive {
		v.Blockers = append(v.Blockers, fmt.Sprintf("%q is inactive", source.Name))
	}
	if !target.IsActive {
		v.Blockers = append(v.Blockers, fmt.Sprintf("%q is inactive", target.Name))
	}
	if source.Type != target.Type {
		v.Blockers = append(v.Blockers, fmt.Sprintf("account types differ (%s vs %s)", source.Type, target.Type))
	}
	if source.CurrencyOrDefault() != target.CurrencyOrDefault() {
		v.Blockers = append(v.Blockers, fmt.Sprintf("currencies differ (%s vs %s)", source.CurrencyOrDefault(), target.CurrencyOrDefault()))
	}

	if source.HasBalance() {
		v.Warnings = append(v.Warnings, fmt.Sprintf("balance of %.2f will transfer to %q", source.Balance, target.Name))
	}

	switch {
	case len(v.Blockers) > 0:
		v.Status = MergeBlocked
	case len(v.Warnings) > 0:
		v.Status = MergeWarning
	default:
		v.Status = MergeReady
	}
	return v
}

// mergeService validates and executes account merges.
type mergeService struct {
	repo *repository.AccountRepository
}

// NewMergeService creates a new MergeServicer.
func NewMergeService(repo *repository.AccountRepository) MergeServicer {
	return &mergeService{repo: repo}
}

// Validate recomputes the merge validation for a candidate pair.
func (s *mergeService) Validate(sourceID, targetID string) (*MergeValidation, error) {
	source, err := s.repo.Get(sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.Get(targetID)
	if err != nil {
		return nil, err
	}

	v := ValidateMerge(*source, *target)
	return &v, nil
}

// Merge executes a validated merge. The operator must confirm by providing
// the target account's exact name (leading/trailing whitespace ignored,
// case-sensitive); a mismatch blocks the merge regardless of validation.
func (s *mergeService) Merge(sourceID, targetID, confirmName string) error {
	source, err := s.repo.Get(sourceID)
	if err != nil {
		return err
	}
	target, err := s.repo.Get(targetID)
	if err != nil {
		return err
	}

	if v := ValidateMerge(*source, *target); v.Status == MergeBlocked {
		return apperrors.WithMessage(apperrors.ErrMergeBlocked, strings.Join(v.Blockers, "; "))
	}
	if strings.TrimSpace(confirmName) != target.Name {
		return apperrors.ErrConfirmationMismatch
	}

	return s.repo.Merge(sourceID, targetID)
}
