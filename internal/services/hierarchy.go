package services

import (
	"chartkeep/internal/models"
)

// AccountNode is an account with its resolved children.
type AccountNode struct {
	models.Account
	Nodes []*AccountNode `json:"children"`
}

// TypeGroup buckets root accounts under their account type.
type TypeGroup struct {
	Type     models.AccountType `json:"type"`
	Accounts []models.Account   `json:"accounts"`
}

// TreeView is the derived hierarchy over the current account snapshot.
// When no account has children, Groups carries the grouped-by-type fallback
// view and HasHierarchy is false.
type TreeView struct {
	Roots        []*AccountNode `json:"roots"`
	Groups       []TypeGroup    `json:"groups,omitempty"`
	HasHierarchy bool           `json:"has_hierarchy"`
}

// BuildTree derives a forest from the flat account list. Accounts without a
// parent, with an unknown parent reference, or caught in a stored parent
// cycle are placed at the root level; cycle members lose their parent edge
// so the forest stays acyclic.
func BuildTree(accounts []models.Account) *TreeView {
	nodes := make(map[string]*AccountNode, len(accounts))
	for i := range accounts {
		nodes[accounts[i].ID] = &AccountNode{Account: accounts[i]}
	}

	var roots []*AccountNode
	hasHierarchy := false
	for i := range accounts {
		node := nodes[accounts[i].ID]
		parentID := accounts[i].ParentID

		if parentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*parentID]
		if !ok || inCycle(accounts[i].ID, nodes) {
			// orphan reference or stored cycle: force to root
			roots = append(roots, node)
			continue
		}
		parent.Nodes = append(parent.Nodes, node)
		hasHierarchy = true
	}

	view := &TreeView{Roots: roots, HasHierarchy: hasHierarchy}
	if !hasHierarchy {
		view.Groups = groupByType(accounts)
	}
	return view
}

// inCycle reports whether walking up from id returns to id.
func inCycle(id string, nodes map[string]*AccountNode) bool {
	seen := make(map[string]bool)
	cursor := id
	for {
		node, ok := nodes[cursor]
		if !ok || node.ParentID == nil {
			return false
		}
		next := *node.ParentID
		if next == id {
			return true
		}
		if seen[next] {
			return false // loop above us, not through us
		}
		seen[next] = true
		cursor = next
	}
}

// groupByType buckets accounts by type in canonical type order.
func groupByType(accounts []models.Account) []TypeGroup {
	byType := make(map[models.AccountType][]models.Account)
	for _, a := range accounts {
		byType[a.Type] = append(byType[a.Type], a)
	}

	var groups []TypeGroup
	for _, t := range models.AccountTypes {
		if members, ok := byType[t]; ok {
			groups = append(groups, TypeGroup{Type: t, Accounts: members})
		}
	}
	return groups
}
