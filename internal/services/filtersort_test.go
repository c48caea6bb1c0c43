package services

import (
	"testing"

	"chartkeep/internal/models"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func sampleAccounts() []models.Account {
	return []models.Account{
		{Base: models.Base{ID: "a1"}, Code: "1000", Name: "Cash", Type: models.AccountTypeAsset, Balance: 500, IsActive: true, IsCore: true},
		{Base: models.Base{ID: "a2"}, Code: "1200", Name: "Accounts Receivable", Type: models.AccountTypeAsset, Balance: 0, IsActive: true},
		{Base: models.Base{ID: "a3"}, Code: "2000", Name: "Accounts Payable", Type: models.AccountTypeLiability, Balance: -250, IsActive: true},
		{Base: models.Base{ID: "a4"}, Code: "4000", Name: "Sales", Type: models.AccountTypeRevenue, Balance: 1200, IsActive: false},
		{Base: models.Base{ID: "a5"}, Code: "", Name: "Misc Expenses", Type: models.AccountTypeExpense, Balance: 75, IsActive: true},
	}
}

func idsOf(accounts []models.Account) []string {
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids
}

func assertIDs(t *testing.T, got []models.Account, want ...string) {
	t.Helper()
	gotIDs := idsOf(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, gotIDs)
		}
	}
}

func TestApplyQuery(t *testing.T) {
	t.Run("search_matches_code_name_and_type", func(t *testing.T) {
		accounts := sampleAccounts()

		assertIDs(t, ApplyQuery(accounts, AccountQuery{Search: "1200"}), "a2")
		assertIDs(t, ApplyQuery(accounts, AccountQuery{Search: "payable"}), "a3")
		// matching the type string alone is enough
		assertIDs(t, ApplyQuery(accounts, AccountQuery{Search: "revenue"}), "a4")
	})

	t.Run("type_set_filter", func(t *testing.T) {
		got := ApplyQuery(sampleAccounts(), AccountQuery{
			Criteria: FilterCriteria{Types: []models.AccountType{models.AccountTypeAsset}},
		})
		assertIDs(t, got, "a1", "a2")
	})

	t.Run("empty_type_set_is_noop", func(t *testing.T) {
		got := ApplyQuery(sampleAccounts(), AccountQuery{})
		if len(got) != 5 {
			t.Fatalf("expected all 5 accounts, got %d", len(got))
		}
	})

	t.Run("balance_range", func(t *testing.T) {
		got := ApplyQuery(sampleAccounts(), AccountQuery{
			Criteria: FilterCriteria{BalanceMin: fp(0), BalanceMax: fp(600)},
		})
		assertIDs(t, got, "a1", "a2", "a5")
	})

	t.Run("hide_zero_balance", func(t *testing.T) {
		got := ApplyQuery(sampleAccounts(), AccountQuery{
			Criteria: FilterCriteria{HideZeroBalance: true},
		})
		assertIDs(t, got, "a1", "a3", "a4", "a5")
	})

	t.Run("status_filter", func(t *testing.T) {
		active := ApplyQuery(sampleAccounts(), AccountQuery{Criteria: FilterCriteria{Status: StatusActive}})
		if len(active) != 4 {
			t.Errorf("expected 4 active accounts, got %d", len(active))
		}
		inactive := ApplyQuery(sampleAccounts(), AccountQuery{Criteria: FilterCriteria{Status: StatusInactive}})
		assertIDs(t, inactive, "a4")
	})

	t.Run("code_range_only_when_codes_visible", func(t *testing.T) {
		criteria := FilterCriteria{CodeMin: ip(1000), CodeMax: ip(1999)}

		hidden := ApplyQuery(sampleAccounts(), AccountQuery{Criteria: criteria})
		if len(hidden) != 5 {
			t.Errorf("expected code range ignored when codes hidden, got %d accounts", len(hidden))
		}

		// empty code parses as 0 and falls outside the range
		visible := ApplyQuery(sampleAccounts(), AccountQuery{Criteria: criteria, CodesVisible: true})
		assertIDs(t, visible, "a1", "a2")
	})

	t.Run("core_only", func(t *testing.T) {
		got := ApplyQuery(sampleAccounts(), AccountQuery{Criteria: FilterCriteria{CoreOnly: true}})
		assertIDs(t, got, "a1")
	})

	t.Run("selection_only", func(t *testing.T) {
		got := ApplyQuery(sampleAccounts(), AccountQuery{SelectedOnly: true, SelectedIDs: []string{"a3", "a5"}})
		assertIDs(t, got, "a3", "a5")
	})

	t.Run("filter_order_does_not_change_outcome", func(t *testing.T) {
		// independent predicates compose associatively: one combined pass
		// equals applying them one at a time
		combined := ApplyQuery(sampleAccounts(), AccountQuery{
			Criteria: FilterCriteria{
				Types:           []models.AccountType{models.AccountTypeAsset, models.AccountTypeExpense},
				HideZeroBalance: true,
				Status:          StatusActive,
			},
		})

		step := ApplyQuery(sampleAccounts(), AccountQuery{
			Criteria: FilterCriteria{Types: []models.AccountType{models.AccountTypeAsset, models.AccountTypeExpense}},
		})
		step = ApplyQuery(step, AccountQuery{Criteria: FilterCriteria{Status: StatusActive}})
		step = ApplyQuery(step, AccountQuery{Criteria: FilterCriteria{HideZeroBalance: true}})

		assertIDs(t, combined, idsOf(step)...)
	})
}

func TestSort(t *testing.T) {
	t.Run("code_sorts_numerically", func(t *testing.T) {
		accounts := []models.Account{
			{Base: models.Base{ID: "x"}, Code: "900", Name: "X"},
			{Base: models.Base{ID: "y"}, Code: "1000", Name: "Y"},
			{Base: models.Base{ID: "z"}, Code: "abc", Name: "Z"}, // unparsable -> 0
		}
		got := ApplyQuery(accounts, AccountQuery{SortBy: "code"})
		assertIDs(t, got, "z", "x", "y")
	})

	t.Run("name_sorts_case_insensitively", func(t *testing.T) {
		accounts := []models.Account{
			{Base: models.Base{ID: "b"}, Name: "bravo"},
			{Base: models.Base{ID: "a"}, Name: "Alpha"},
		}
		got := ApplyQuery(accounts, AccountQuery{SortBy: "name"})
		assertIDs(t, got, "a", "b")
	})

	t.Run("direction_inverts", func(t *testing.T) {
		got := ApplyQuery(sampleAccounts(), AccountQuery{SortBy: "balance", SortDesc: true})
		if got[0].ID != "a4" {
			t.Errorf("expected highest balance first, got %s", got[0].ID)
		}
	})

	t.Run("ties_keep_input_order", func(t *testing.T) {
		accounts := []models.Account{
			{Base: models.Base{ID: "first"}, Name: "Same", Balance: 10},
			{Base: models.Base{ID: "second"}, Name: "Same", Balance: 10},
		}
		got := ApplyQuery(accounts, AccountQuery{SortBy: "name"})
		assertIDs(t, got, "first", "second")
	})
}
