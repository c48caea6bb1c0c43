package services

import (
	"fmt"

	"chartkeep/internal/models"
	"chartkeep/internal/repository"
)

// FieldOp says what to do with one field of a bulk patch.
type FieldOp int

const (
	FieldUnchanged FieldOp = iota
	FieldSet
	FieldClear
)

// Field is a tagged field update. The three-way distinction keeps "absence
// means unchanged" explicit instead of hiding it in empty-string conventions.
type Field[T any] struct {
	Op    FieldOp
	Value T
}

// Set returns a field update that sets the value.
func Set[T any](v T) Field[T] {
	return Field[T]{Op: FieldSet, Value: v}
}

// Clear returns a field update that clears the field.
func Clear[T any]() Field[T] {
	return Field[T]{Op: FieldClear}
}

// BulkPatch is the sparse patch applied to every selected account.
type BulkPatch struct {
	Type        Field[models.AccountType]
	Description Field[string]
	Notes       Field[string]
	ParentID    Field[string]
	IsActive    Field[bool]
}

// BulkResult reports per-account outcomes; bulk edits never fail atomically.
type BulkResult struct {
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// bulkEditService applies sparse patches to sets of accounts.
type bulkEditService struct {
	repo *repository.AccountRepository
}

// NewBulkEditService creates a new BulkEditServicer.
func NewBulkEditService(repo *repository.AccountRepository) BulkEditServicer {
	return &bulkEditService{repo: repo}
}

// Apply edits each selected account independently and reports combined
// success/failure counts. A parent assignment that would make an account
// its own parent, or close a one-level cycle (the proposed parent already
// has the edited account as its parent), is dropped for that account only.
func (s *bulkEditService) Apply(ids []string, patch BulkPatch) (*BulkResult, error) {
	result := &BulkResult{}

	for _, id := range ids {
		fields := s.fieldsFor(id, patch)
		if len(fields) == 0 {
			continue
		}
		if _, err := s.repo.Update(id, fields); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		result.Updated++
	}
	return result, nil
}

// fieldsFor builds the per-account column patch from the common bulk patch.
func (s *bulkEditService) fieldsFor(id string, patch BulkPatch) map[string]interface{} {
	fields := make(map[string]interface{})

	switch patch.Type.Op {
	case FieldSet:
		fields["type"] = patch.Type.Value
	case FieldClear:
		// account type is required; clearing it is meaningless
	}
	switch patch.Description.Op {
	case FieldSet:
		fields["description"] = patch.Description.Value
	case FieldClear:
		fields["description"] = ""
	}
	switch patch.Notes.Op {
	case FieldSet:
		fields["notes"] = patch.Notes.Value
	case FieldClear:
		fields["notes"] = ""
	}
	switch patch.IsActive.Op {
	case FieldSet:
		fields["is_active"] = patch.IsActive.Value
	}

	switch patch.ParentID.Op {
	case FieldClear:
		fields["parent_id"] = nil
	case FieldSet:
		if parentID := patch.ParentID.Value; s.parentAllowed(id, parentID) {
			fields["parent_id"] = parentID
		}
	}
	return fields
}

// parentAllowed drops self-parent and one-level-cycle assignments. Deeper
// cycles are caught by the repository's ancestor walk and reported as
// per-account failures.
func (s *bulkEditService) parentAllowed(id, parentID string) bool {
	if parentID == id {
		return false
	}
	parent, err := s.repo.Get(parentID)
	if err != nil {
		return true // let the repository report the missing parent
	}
	if parent.ParentID != nil && *parent.ParentID == id {
		return false
	}
	return true
}
