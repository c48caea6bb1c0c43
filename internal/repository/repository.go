// Package repository owns the canonical in-memory account snapshot and
// mediates every mutation against the backing store. Mutations follow an
// optimistic protocol: the snapshot is updated first, the store call runs
// under a per-account lock, and on failure the prior snapshot entry is
// restored before the error is returned. Derived views (tree, filtered
// lists, health scores) read the snapshot and use the generation counter
// to detect staleness.
package repository

import (
	"sort"
	"strings"
	"sync"

	apperrors "chartkeep/internal/errors"
	"chartkeep/internal/models"
)

// AccountRepository is the single source of truth for account master data.
type AccountRepository struct {
	store Store

	mu         sync.RWMutex
	accounts   map[string]*models.Account
	generation uint64

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// New creates an AccountRepository and loads the initial snapshot from the store.
func New(store Store) (*AccountRepository, error) {
	r := &AccountRepository{
		store:    store,
		accounts: make(map[string]*models.Account),
		locks:    make(map[string]*sync.Mutex),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the snapshot with the store's current contents.
func (r *AccountRepository) Reload() error {
	accounts, err := r.store.ListAccounts()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make(map[string]*models.Account, len(accounts))
	for i := range accounts {
		a := accounts[i]
		r.accounts[a.ID] = &a
	}
	r.generation++
	return nil
}

// Generation returns the snapshot generation. It is bumped on every
// successful mutation so derived views can be invalidated deterministically.
func (r *AccountRepository) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// List returns a copy of all accounts ordered by code then name.
func (r *AccountRepository) List() []models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Get returns a copy of the account with the given id.
func (r *AccountRepository) Get(id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

// CodeExists reports whether any account carries the given code.
func (r *AccountRepository) CodeExists(code string) bool {
	if code == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Code == code {
			return true
		}
	}
	return false
}

// Create persists a new account and adds it to the snapshot. The store is
// written first here: the entry does not exist yet, so there is nothing to
// restore, and the store's create hook assigns the id the snapshot keys on.
func (r *AccountRepository) Create(account *models.Account) (*models.Account, error) {
	if account.ParentID != nil {
		if _, err := r.Get(*account.ParentID); err != nil {
			return nil, apperrors.ErrParentNotFound
		}
	}

	if err := r.store.CreateAccount(account); err != nil {
		return nil, err
	}

	r.mu.Lock()
	copied := *account
	r.accounts[account.ID] = &copied
	r.generation++
	r.mu.Unlock()

	result := *account
	return &result, nil
}

// Update applies a sparse field patch to one account. The patch is applied
// to the snapshot before the store call; a store failure restores the prior
// snapshot entry. Parent changes are validated against self-reference and
// hierarchy cycles (rejected with ErrParentCycle).
func (r *AccountRepository) Update(id string, fields map[string]interface{}) (*models.Account, error) {
	if len(fields) == 0 {
		return r.Get(id)
	}

	unlock := r.lockAccount(id)
	defer unlock()

	r.mu.Lock()
	current, ok := r.accounts[id]
	if !ok {
		r.mu.Unlock()
		return nil, apperrors.ErrAccountNotFound
	}

	if parentID, present := fields["parent_id"]; present {
		if err := r.validateParentLocked(id, parentID); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}

	prior := *current
	applyFields(current, fields)
	r.mu.Unlock()

	updated, err := r.store.UpdateAccount(id, fields)
	if err != nil {
		r.mu.Lock()
		restored := prior
		r.accounts[id] = &restored
		r.mu.Unlock()
		return nil, err
	}

	r.mu.Lock()
	stored := *updated
	r.accounts[id] = &stored
	r.generation++
	r.mu.Unlock()

	result := *updated
	return &result, nil
}

// SetActive toggles the lifecycle flag of one account.
func (r *AccountRepository) SetActive(id string, active bool) (*models.Account, error) {
	return r.Update(id, map[string]interface{}{"is_active": active})
}

// Delete removes an account. Accounts with a balance above the zero
// threshold, or with recorded ledger transactions, cannot be hard-deleted;
// callers should offer deactivation (or a transfer, for used accounts).
func (r *AccountRepository) Delete(id string) error {
	unlock := r.lockAccount(id)
	defer unlock()

	r.mu.Lock()
	current, ok := r.accounts[id]
	if !ok {
		r.mu.Unlock()
		return apperrors.ErrAccountNotFound
	}
	if current.HasBalance() {
		r.mu.Unlock()
		return apperrors.ErrBalanceNonZero
	}
	prior := *current
	r.mu.Unlock()

	// A zero balance is not enough: an account with ledger history keeps
	// its transactions and must be deactivated or transferred instead.
	activity, err := r.store.GetActivity(id)
	if err != nil {
		return err
	}
	if activity != nil && activity.TransactionCount > 0 {
		return apperrors.ErrAccountHasUsage
	}

	r.mu.Lock()
	delete(r.accounts, id)
	r.mu.Unlock()

	if err := r.store.DeleteAccount(id); err != nil {
		r.mu.Lock()
		restored := prior
		r.accounts[id] = &restored
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.generation++
	r.mu.Unlock()
	return nil
}

// Merge transfers the source balance to the target and removes the source.
// Both snapshot entries are restored if the store call fails.
func (r *AccountRepository) Merge(sourceID, targetID string) error {
	if sourceID == targetID {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "cannot merge an account into itself")
	}

	// Lock in a stable order to avoid deadlock with a concurrent reverse merge.
	first, second := sourceID, targetID
	if second < first {
		first, second = second, first
	}
	unlockFirst := r.lockAccount(first)
	defer unlockFirst()
	unlockSecond := r.lockAccount(second)
	defer unlockSecond()

	r.mu.Lock()
	source, ok := r.accounts[sourceID]
	if !ok {
		r.mu.Unlock()
		return apperrors.ErrAccountNotFound
	}
	target, ok := r.accounts[targetID]
	if !ok {
		r.mu.Unlock()
		return apperrors.ErrAccountNotFound
	}

	priorSource := *source
	priorTarget := *target
	target.Balance += source.Balance
	delete(r.accounts, sourceID)
	r.mu.Unlock()

	// The store commits the transfer and the source removal as one
	// transaction, so a failure here means nothing was written.
	if err := r.store.MergeAccounts(sourceID, targetID); err != nil {
		r.mu.Lock()
		s, t := priorSource, priorTarget
		r.accounts[sourceID] = &s
		r.accounts[targetID] = &t
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.generation++
	r.mu.Unlock()
	return nil
}

// ActivityIndex returns per-account ledger activity keyed by account id.
// Activity is maintained externally, so it is read through to the store
// rather than cached in the snapshot.
func (r *AccountRepository) ActivityIndex() (map[string]models.AccountActivity, error) {
	rows, err := r.store.ListActivity()
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.AccountActivity, len(rows))
	for _, row := range rows {
		index[row.AccountID] = row
	}
	return index, nil
}

// lockAccount serializes writes to a single account. Two rapid toggles on
// the same account run in call order instead of racing.
func (r *AccountRepository) lockAccount(id string) func() {
	r.lockMu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}

// validateParentLocked checks a proposed parent_id value against the
// snapshot. Callers must hold r.mu.
func (r *AccountRepository) validateParentLocked(id string, parentID interface{}) error {
	parent, ok := parentValue(parentID)
	if !ok || parent == "" {
		return nil // clearing the parent is always allowed
	}
	if parent == id {
		return apperrors.ErrSelfParent
	}
	if _, exists := r.accounts[parent]; !exists {
		return apperrors.ErrParentNotFound
	}

	// Ancestor walk: if id is reachable from the proposed parent, the
	// assignment would close a cycle.
	seen := make(map[string]bool)
	for cursor := parent; cursor != ""; {
		if cursor == id {
			return apperrors.ErrParentCycle
		}
		if seen[cursor] {
			break // pre-existing cycle in stored data; the new edge is above it
		}
		seen[cursor] = true

		node, exists := r.accounts[cursor]
		if !exists || node.ParentID == nil {
			break
		}
		cursor = *node.ParentID
	}
	return nil
}

// parentValue normalizes the dynamic parent_id patch value.
func parentValue(v interface{}) (string, bool) {
	switch p := v.(type) {
	case nil:
		return "", false
	case string:
		return p, true
	case *string:
		if p == nil {
			return "", false
		}
		return *p, true
	}
	return "", false
}

// applyFields mirrors the store's column update onto a snapshot entry.
func applyFields(account *models.Account, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "code":
			if s, ok := value.(string); ok {
				account.Code = s
			}
		case "name":
			if s, ok := value.(string); ok {
				account.Name = s
			}
		case "type":
			switch t := value.(type) {
			case models.AccountType:
				account.Type = t
			case string:
				account.Type = models.AccountType(t)
			}
		case "description":
			if s, ok := value.(string); ok {
				account.Description = s
			}
		case "notes":
			if s, ok := value.(string); ok {
				account.Notes = s
			}
		case "balance":
			if f, ok := value.(float64); ok {
				account.Balance = f
			}
		case "currency":
			if s, ok := value.(string); ok {
				account.Currency = s
			}
		case "parent_id":
			if p, ok := parentValue(value); ok && p != "" {
				parent := p
				account.ParentID = &parent
			} else {
				account.ParentID = nil
			}
		case "is_active":
			if b, ok := value.(bool); ok {
				account.IsActive = b
			}
		case "is_core":
			if b, ok := value.(bool); ok {
				account.IsCore = b
			}
		case "is_default":
			if b, ok := value.(bool); ok {
				account.IsDefault = b
			}
		}
	}
}
