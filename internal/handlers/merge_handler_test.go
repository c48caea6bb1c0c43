package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/services"
)

func setupMergeRouter(handler *MergeHandler) *gin.Engine {
	r := gin.New()
	r.POST("/accounts/merge/validate", handler.ValidateMerge)
	r.POST("/accounts/merge", handler.Merge)
	return r
}

func TestMergeHandler_ValidateMerge(t *testing.T) {
	t.Run("returns 200 with validation result", func(t *testing.T) {
		mergeSvc := &mockMergeService{
			validateFn: func(sourceID, targetID string) (*services.MergeValidation, error) {
				return &services.MergeValidation{
					Status:   services.MergeWarning,
					Blockers: []string{},
					Warnings: []string{"balance of 75.00 will transfer"},
				}, nil
			},
		}
		handler := NewMergeHandler(mergeSvc, &mockAuditService{})
		r := setupMergeRouter(handler)

		rec := doRequest(r, "POST", "/accounts/merge/validate", `{"source_account_id":"a1","target_account_id":"a2"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		validation := result["validation"].(map[string]interface{})
		if validation["status"] != "warning" {
			t.Errorf("expected warning status, got %v", validation["status"])
		}
	})

	t.Run("returns 400 on missing pair", func(t *testing.T) {
		handler := NewMergeHandler(&mockMergeService{}, &mockAuditService{})
		r := setupMergeRouter(handler)

		rec := doRequest(r, "POST", "/accounts/merge/validate", `{"source_account_id":"a1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown account", func(t *testing.T) {
		mergeSvc := &mockMergeService{
			validateFn: func(sourceID, targetID string) (*services.MergeValidation, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		handler := NewMergeHandler(mergeSvc, &mockAuditService{})
		r := setupMergeRouter(handler)

		rec := doRequest(r, "POST", "/accounts/merge/validate", `{"source_account_id":"a1","target_account_id":"missing"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestMergeHandler_Merge(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		var gotConfirm string
		mergeSvc := &mockMergeService{
			mergeFn: func(sourceID, targetID, confirmName string) error {
				gotConfirm = confirmName
				return nil
			},
		}
		handler := NewMergeHandler(mergeSvc, audit)
		r := setupMergeRouter(handler)

		rec := doRequest(r, "POST", "/accounts/merge",
			`{"source_account_id":"a1","target_account_id":"a2","confirm_name":"Advertising"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotConfirm != "Advertising" {
			t.Errorf("expected confirmation passthrough, got %q", gotConfirm)
		}
		if len(audit.logged) != 1 || audit.logged[0] != "MERGE_ACCOUNTS" {
			t.Errorf("expected audit entry, got %v", audit.logged)
		}
	})

	t.Run("returns 400 on missing confirmation", func(t *testing.T) {
		handler := NewMergeHandler(&mockMergeService{}, &mockAuditService{})
		r := setupMergeRouter(handler)

		rec := doRequest(r, "POST", "/accounts/merge", `{"source_account_id":"a1","target_account_id":"a2"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on confirmation mismatch", func(t *testing.T) {
		mergeSvc := &mockMergeService{
			mergeFn: func(sourceID, targetID, confirmName string) error {
				return apperrors.ErrConfirmationMismatch
			},
		}
		handler := NewMergeHandler(mergeSvc, &mockAuditService{})
		r := setupMergeRouter(handler)

		rec := doRequest(r, "POST", "/accounts/merge",
			`{"source_account_id":"a1","target_account_id":"a2","confirm_name":"wrong"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CONFIRMATION_MISMATCH")
	})

	t.Run("returns 409 when blocked", func(t *testing.T) {
		mergeSvc := &mockMergeService{
			mergeFn: func(sourceID, targetID, confirmName string) error {
				return apperrors.WithMessage(apperrors.ErrMergeBlocked, "source is inactive")
			},
		}
		handler := NewMergeHandler(mergeSvc, &mockAuditService{})
		r := setupMergeRouter(handler)

		rec := doRequest(r, "POST", "/accounts/merge",
			`{"source_account_id":"a1","target_account_id":"a2","confirm_name":"Advertising"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MERGE_BLOCKED")
	})
}
