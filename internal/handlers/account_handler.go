package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/models"
	"chartkeep/internal/services"
)

// AccountHandler handles chart-of-accounts requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// ListAccountsRequest carries the query parameters of the list view. Types and
// selected_ids accept comma-separated values.
type ListAccountsRequest struct {
	Search          string   `form:"search" binding:"max=100"`
	Types           string   `form:"types"`
	BalanceMin      *float64 `form:"balance_min"`
	BalanceMax      *float64 `form:"balance_max"`
	HideZeroBalance bool     `form:"hide_zero_balance"`
	Status          string   `form:"status" binding:"omitempty,account_status"`
	CodeMin         *int     `form:"code_min"`
	CodeMax         *int     `form:"code_max"`
	CodesVisible    bool     `form:"codes_visible"`
	CoreOnly        bool     `form:"core_only"`
	SortBy          string   `form:"sort_by" binding:"omitempty,oneof=code name type balance description currency notes"`
	SortDesc        bool     `form:"sort_desc"`
	SelectedIDs     string   `form:"selected_ids"`
	SelectedOnly    bool     `form:"selected_only"`
}

// CreateAccountRequest represents the request payload for creating an account.
type CreateAccountRequest struct {
	Code        string  `json:"code" binding:"omitempty,account_code"`
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Type        string  `json:"type" binding:"required,account_type"`
	Description string  `json:"description" binding:"max=500"`
	Notes       string  `json:"notes" binding:"max=1000"`
	Currency    string  `json:"currency" binding:"omitempty,iso4217"`
	ParentID    *string `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateAccountRequest represents a sparse single-account patch. Omitted
// fields are left unchanged; clear_parent detaches the account.
type UpdateAccountRequest struct {
	Code        *string `json:"code" binding:"omitempty,account_code"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Type        *string `json:"type" binding:"omitempty,account_type"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
	Currency    *string `json:"currency" binding:"omitempty,iso4217"`
	ParentID    *string `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
	IsActive    *bool   `json:"is_active"`
}

// SetActiveRequest toggles the account lifecycle flag.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ListAccounts returns the filtered, sorted account list.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var req ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	query := services.AccountQuery{
		Search: req.Search,
		Criteria: services.FilterCriteria{
			BalanceMin:      req.BalanceMin,
			BalanceMax:      req.BalanceMax,
			HideZeroBalance: req.HideZeroBalance,
			Status:          services.StatusFilter(req.Status),
			CodeMin:         req.CodeMin,
			CodeMax:         req.CodeMax,
			CoreOnly:        req.CoreOnly,
		},
		SortBy:       req.SortBy,
		SortDesc:     req.SortDesc,
		CodesVisible: req.CodesVisible,
		SelectedIDs:  splitCSV(req.SelectedIDs),
		SelectedOnly: req.SelectedOnly,
	}
	for _, raw := range splitCSV(req.Types) {
		accountType := models.AccountType(raw)
		if !accountType.IsValid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type "+raw))
			return
		}
		query.Criteria.Types = append(query.Criteria.Types, accountType)
	}

	accounts := h.accountService.List(query)
	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "total": len(accounts)})
}

// GetAccountTree returns the account hierarchy, grouped by type when no
// parent links exist.
func (h *AccountHandler) GetAccountTree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tree": h.accountService.Tree()})
}

// GetAccountByID returns a single account.
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// CreateAccount creates a new account.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.Create(services.CreateAccountInput{
		Code:        req.Code,
		Name:        strings.TrimSpace(req.Name),
		Type:        models.AccountType(req.Type),
		Description: req.Description,
		Notes:       req.Notes,
		Currency:    req.Currency,
		ParentID:    req.ParentID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_ACCOUNT", account.ID, c.ClientIP(),
		map[string]interface{}{"name": account.Name, "code": account.Code, "type": account.Type})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// UpdateAccount applies a sparse patch to one account.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.UpdateAccountInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
		Currency:    req.Currency,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		IsActive:    req.IsActive,
	}
	if req.Type != nil {
		accountType := models.AccountType(*req.Type)
		input.Type = &accountType
	}

	account, err := h.accountService.Update(id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_ACCOUNT", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount removes an account. Deletes are blocked with a 409 and a
// deactivation suggestion when the account still carries a balance.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_ACCOUNT", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// SetAccountActive activates or deactivates an account.
func (h *AccountHandler) SetAccountActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.SetActive(id, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("SET_ACCOUNT_ACTIVE", id, c.ClientIP(),
		map[string]interface{}{"is_active": *req.IsActive})

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// BootstrapDefaults provisions the default chart of accounts. Safe to call
// repeatedly; existing codes are skipped.
func (h *AccountHandler) BootstrapDefaults(c *gin.Context) {
	result, err := h.accountService.EnsureDefaults()
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.NewCount > 0 {
		h.auditService.Log("BOOTSTRAP_DEFAULTS", "", c.ClientIP(),
			map[string]interface{}{"new_count": result.NewCount})
	}

	c.JSON(http.StatusOK, result)
}

// splitCSV splits a comma-separated query value, dropping empty entries.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
