package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"chartkeep/internal/models"
)

// StatusFilter narrows accounts by lifecycle state.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// FilterCriteria is the composable set of account filters. Zero values mean
// "no constraint" for every field.
type FilterCriteria struct {
	Types           []models.AccountType
	BalanceMin      *float64
	BalanceMax      *float64
	HideZeroBalance bool
	Status          StatusFilter
	CodeMin         *int
	CodeMax         *int
	CoreOnly        bool
}

// AccountQuery combines search, filters, and sorting for a list view.
// Each filter stage narrows the previous result; the code-range stage only
// runs when codes are visible in the requesting view.
type AccountQuery struct {
	Search       string
	Criteria     FilterCriteria
	SortBy       string
	SortDesc     bool
	CodesVisible bool
	SelectedIDs  []string
	SelectedOnly bool
}

// ApplyQuery filters and sorts the given accounts. The input slice is not
// modified; the returned slice preserves input order for ties (stable sort).
func ApplyQuery(accounts []models.Account, q AccountQuery) []models.Account {
	result := make([]models.Account, len(accounts))
	copy(result, accounts)

	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		result = keep(result, func(a models.Account) bool {
			return strings.Contains(strings.ToLower(a.Code), search) ||
				strings.Contains(strings.ToLower(a.Name), search) ||
				strings.Contains(strings.ToLower(string(a.Type)), search)
		})
	}

	if len(q.Criteria.Types) > 0 {
		wanted := make(map[models.AccountType]bool, len(q.Criteria.Types))
		for _, t := range q.Criteria.Types {
			wanted[t] = true
		}
		result = keep(result, func(a models.Account) bool { return wanted[a.Type] })
	}

	if q.Criteria.BalanceMin != nil {
		result = keep(result, func(a models.Account) bool { return a.Balance >= *q.Criteria.BalanceMin })
	}
	if q.Criteria.BalanceMax != nil {
		result = keep(result, func(a models.Account) bool { return a.Balance <= *q.Criteria.BalanceMax })
	}

	if q.Criteria.HideZeroBalance {
		result = keep(result, func(a models.Account) bool { return math.Abs(a.Balance) > models.BalanceEpsilon })
	}

	switch q.Criteria.Status {
	case StatusActive:
		result = keep(result, func(a models.Account) bool { return a.IsActive })
	case StatusInactive:
		result = keep(result, func(a models.Account) bool { return !a.IsActive })
	}

	if q.CodesVisible {
		if q.Criteria.CodeMin != nil {
			result = keep(result, func(a models.Account) bool { return int(numericValue(a.Code)) >= *q.Criteria.CodeMin })
		}
		if q.Criteria.CodeMax != nil {
			result = keep(result, func(a models.Account) bool { return int(numericValue(a.Code)) <= *q.Criteria.CodeMax })
		}
	}

	if q.Criteria.CoreOnly {
		result = keep(result, func(a models.Account) bool { return a.IsCore })
	}

	if q.SelectedOnly {
		selected := make(map[string]bool, len(q.SelectedIDs))
		for _, id := range q.SelectedIDs {
			selected[id] = true
		}
		result = keep(result, func(a models.Account) bool { return selected[a.ID] })
	}

	sortAccounts(result, q.SortBy, q.SortDesc)
	return result
}

// sortAccounts orders accounts by the given field. Code and balance compare
// numerically (unparsable values count as 0); every other field compares
// case-insensitively as a string. Ties keep their input order.
func sortAccounts(accounts []models.Account, sortBy string, desc bool) {
	if sortBy == "" {
		return
	}

	less := func(a, b models.Account) bool {
		switch sortBy {
		case "code":
			return numericValue(a.Code) < numericValue(b.Code)
		case "balance":
			return a.Balance < b.Balance
		default:
			return strings.ToLower(stringField(a, sortBy)) < strings.ToLower(stringField(b, sortBy))
		}
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		if desc {
			return less(accounts[j], accounts[i])
		}
		return less(accounts[i], accounts[j])
	})
}

func stringField(a models.Account, field string) string {
	switch field {
	case "name":
		return a.Name
	case "type":
		return string(a.Type)
	case "description":
		return a.Description
	case "currency":
		return a.Currency
	case "notes":
		return a.Notes
	}
	return a.Name
}

// numericValue parses a code-like string, treating anything unparsable as 0.
func numericValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func keep(accounts []models.Account, pred func(models.Account) bool) []models.Account {
	out := accounts[:0]
	for _, a := range accounts {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}
