package services

import (
	"testing"

	"chartkeep/internal/models"
)

func sp(s string) *string { return &s }

func TestBuildTree(t *testing.T) {
	t.Run("builds_forest", func(t *testing.T) {
		accounts := []models.Account{
			{Base: models.Base{ID: "root"}, Name: "Assets", Type: models.AccountTypeAsset},
			{Base: models.Base{ID: "child"}, Name: "Cash", Type: models.AccountTypeAsset, ParentID: sp("root")},
			{Base: models.Base{ID: "grand"}, Name: "Petty Cash", Type: models.AccountTypeAsset, ParentID: sp("child")},
			{Base: models.Base{ID: "other"}, Name: "Sales", Type: models.AccountTypeRevenue},
		}

		view := BuildTree(accounts)
		if !view.HasHierarchy {
			t.Fatal("expected hierarchy")
		}
		if len(view.Roots) != 2 {
			t.Fatalf("expected 2 roots, got %d", len(view.Roots))
		}
		if view.Groups != nil {
			t.Error("expected no grouped fallback when hierarchy exists")
		}

		root := view.Roots[0]
		if root.ID != "root" || len(root.Nodes) != 1 {
			t.Fatalf("expected root with one child, got %s with %d", root.ID, len(root.Nodes))
		}
		if root.Nodes[0].ID != "child" || len(root.Nodes[0].Nodes) != 1 {
			t.Fatal("expected nested grandchild")
		}
	})

	t.Run("orphan_parent_goes_to_root", func(t *testing.T) {
		accounts := []models.Account{
			{Base: models.Base{ID: "a"}, Name: "A", Type: models.AccountTypeAsset, ParentID: sp("missing")},
		}
		view := BuildTree(accounts)
		if len(view.Roots) != 1 || view.Roots[0].ID != "a" {
			t.Fatal("expected orphan placed at root")
		}
	})

	t.Run("stored_cycle_breaks_to_root", func(t *testing.T) {
		accounts := []models.Account{
			{Base: models.Base{ID: "a"}, Name: "A", Type: models.AccountTypeAsset, ParentID: sp("b")},
			{Base: models.Base{ID: "b"}, Name: "B", Type: models.AccountTypeAsset, ParentID: sp("a")},
			{Base: models.Base{ID: "c"}, Name: "C", Type: models.AccountTypeAsset},
		}

		view := BuildTree(accounts)
		// every node must still appear somewhere in the forest
		if len(view.Roots) != 3 {
			t.Fatalf("expected all cycle members forced to root, got %d roots", len(view.Roots))
		}
	})

	t.Run("flat_list_groups_by_type", func(t *testing.T) {
		accounts := []models.Account{
			{Base: models.Base{ID: "a"}, Name: "Cash", Type: models.AccountTypeAsset},
			{Base: models.Base{ID: "b"}, Name: "Sales", Type: models.AccountTypeRevenue},
			{Base: models.Base{ID: "c"}, Name: "Savings", Type: models.AccountTypeAsset},
		}

		view := BuildTree(accounts)
		if view.HasHierarchy {
			t.Fatal("expected no hierarchy")
		}
		if len(view.Groups) != 2 {
			t.Fatalf("expected 2 type groups, got %d", len(view.Groups))
		}
		if view.Groups[0].Type != models.AccountTypeAsset || len(view.Groups[0].Accounts) != 2 {
			t.Errorf("expected asset group with 2 accounts, got %s with %d", view.Groups[0].Type, len(view.Groups[0].Accounts))
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		view := BuildTree(nil)
		if len(view.Roots) != 0 || view.HasHierarchy {
			t.Fatal("expected empty view")
		}
	})
}
