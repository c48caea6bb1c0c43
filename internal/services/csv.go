package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/models"
	"chartkeep/internal/repository"
)

// csvHeader is the export column order; import accepts the same layout.
var csvHeader = []string{"Code", "Name", "Type", "Balance", "Currency", "Parent Code", "Active", "Notes"}

const (
	colCode = iota
	colName
	colType
	colBalance
	colCurrency
	colParentCode
	colActive
	colNotes
)

// ImportResult reports the per-row outcome of a CSV import.
type ImportResult struct {
	Message        string   `json:"message"`
	TotalProcessed int      `json:"total_processed"`
	Errors         []string `json:"errors,omitempty"`
}

// csvService exports and imports the chart of accounts.
type csvService struct {
	repo *repository.AccountRepository
}

// NewCSVService creates a new CSVServicer.
func NewCSVService(repo *repository.AccountRepository) CSVServicer {
	return &csvService{repo: repo}
}

// Export writes every account as CSV. The parent reference is exported as
// the parent's code so the file round-trips between tenants.
func (s *csvService) Export(w io.Writer) error {
	accounts := s.repo.List()
	codeByID := make(map[string]string, len(accounts))
	for _, a := range accounts {
		codeByID[a.ID] = a.Code
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range accounts {
		parentCode := ""
		if a.ParentID != nil {
			parentCode = codeByID[*a.ParentID]
		}
		row := []string{
			a.Code,
			a.Name,
			string(a.Type),
			strconv.FormatFloat(a.Balance, 'f', 2, 64),
			a.CurrencyOrDefault(),
			parentCode,
			strconv.FormatBool(a.IsActive),
			a.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing account %s: %w", a.Name, err)
		}
	}
	return cw.Error()
}

// Import reads CSV rows and applies them one by one: a row whose code
// matches an existing account updates it, any other row creates a new
// account. Row failures are collected and never abort the batch. Parent
// codes are resolved in a second pass so forward references work.
func (s *csvService) Import(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImportFile, err)
	}
	if len(records) > 0 && isHeaderRow(records[0]) {
		records = records[1:]
	}

	result := &ImportResult{}
	type parentLink struct {
		accountID  string
		parentCode string
		row        int
	}
	var links []parentLink

	for i, record := range records {
		rowNum := i + 2 // header is row 1
		account, parentCode, err := parseRow(record)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		var id string
		if existing := s.findByCode(account.Code); existing != nil {
			fields := map[string]interface{}{
				"name":      account.Name,
				"type":      account.Type,
				"currency":  account.Currency,
				"notes":     account.Notes,
				"is_active": account.IsActive,
			}
			if _, err := s.repo.Update(existing.ID, fields); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}
			id = existing.ID
		} else {
			created, err := s.repo.Create(account)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}
			id = created.ID
		}

		result.TotalProcessed++
		if parentCode != "" {
			links = append(links, parentLink{accountID: id, parentCode: parentCode, row: rowNum})
		}
	}

	for _, link := range links {
		parent := s.findByCode(link.parentCode)
		if parent == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: parent code %q not found", link.row, link.parentCode))
			continue
		}
		if _, err := s.repo.Update(link.accountID, map[string]interface{}{"parent_id": parent.ID}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", link.row, err))
		}
	}

	result.Message = fmt.Sprintf("Processed %d accounts", result.TotalProcessed)
	return result, nil
}

func (s *csvService) findByCode(code string) *models.Account {
	if code == "" {
		return nil
	}
	for _, a := range s.repo.List() {
		if a.Code == code {
			account := a
			return &account
		}
	}
	return nil
}

// parseRow validates one CSV record and builds the account it describes.
// The balance column only seeds newly created accounts; balances of
// existing accounts are owned by the ledger service and never overwritten.
func parseRow(record []string) (*models.Account, string, error) {
	if len(record) < len(csvHeader) {
		return nil, "", fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	name := strings.TrimSpace(record[colName])
	if name == "" {
		return nil, "", fmt.Errorf("name is required")
	}
	accountType := models.AccountType(strings.ToLower(strings.TrimSpace(record[colType])))
	if !accountType.IsValid() {
		return nil, "", fmt.Errorf("invalid account type %q", record[colType])
	}

	balance := 0.0
	if raw := strings.TrimSpace(record[colBalance]); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid balance %q", raw)
		}
		balance = parsed
	}

	active := true
	if raw := strings.TrimSpace(record[colActive]); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, "", fmt.Errorf("invalid active flag %q", raw)
		}
		active = parsed
	}

	currency := strings.ToUpper(strings.TrimSpace(record[colCurrency]))
	if currency == "" {
		currency = "USD"
	}

	account := &models.Account{
		Code:     strings.TrimSpace(record[colCode]),
		Name:     name,
		Type:     accountType,
		Balance:  balance,
		Currency: currency,
		IsActive: active,
		Notes:    record[colNotes],
	}
	return account, strings.TrimSpace(record[colParentCode]), nil
}

func isHeaderRow(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "code")
}
