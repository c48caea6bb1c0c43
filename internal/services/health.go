package services

import (
	"fmt"
	"math"
	"time"

	"chartkeep/internal/models"
	"chartkeep/internal/repository"
)

// HealthStatus grades an account's hygiene.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// HealthScore is the derived 0-100 health metric for one account.
type HealthScore struct {
	Score  int          `json:"score"`
	Status HealthStatus `json:"status"`
	Issues []string     `json:"issues"`
}

// AccountHealth pairs a score with its account.
type AccountHealth struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name"`
	HealthScore
}

// Insight is a portfolio-level observation across all accounts.
type Insight struct {
	Message    string   `json:"message"`
	AccountIDs []string `json:"account_ids,omitempty"`
}

const (
	staleAfterDays  = 90
	unusedAfterDays = 180

	// aggregate insights only fire past these counts
	unusedActiveThreshold = 3
	zeroBalanceThreshold  = 5
)

// ScoreAccount computes the health score for one account from its ledger
// activity. Scores start at 100 and issues deduct from it; the result is
// clamped at 0.
func ScoreAccount(account models.Account, activity models.AccountActivity, now time.Time) HealthScore {
	score := 100
	status := HealthHealthy
	issues := []string{}

	if !account.IsActive {
		score -= 30
		issues = append(issues, "Account is inactive")
		status = HealthCritical
	} else if activity.TransactionCount == 0 {
		score -= 20
		issues = append(issues, "No transactions recorded")
		if status == HealthHealthy {
			status = HealthWarning
		}
	}

	if activity.TransactionCount > 0 && activity.LastTransaction != nil {
		days := int(now.Sub(*activity.LastTransaction).Hours() / 24)
		if days > staleAfterDays {
			score -= 15
			issues = append(issues, fmt.Sprintf("No activity in %d days", days))
			if status == HealthHealthy {
				status = HealthWarning
			}
		}
	}

	if math.Abs(account.Balance) <= models.BalanceEpsilon && account.IsActive && account.IsCore {
		score -= 10
		issues = append(issues, "Core account has zero balance")
		if status == HealthHealthy {
			status = HealthWarning
		}
	}

	if score < 0 {
		score = 0
	}
	return HealthScore{Score: score, Status: status, Issues: issues}
}

// healthService derives health scores and portfolio insights from the
// repository snapshot. Nothing here is persisted; every call recomputes
// from current state.
type healthService struct {
	repo *repository.AccountRepository
}

// NewHealthService creates a new HealthServicer.
func NewHealthService(repo *repository.AccountRepository) HealthServicer {
	return &healthService{repo: repo}
}

// ScoreAll computes the health score of every account.
func (s *healthService) ScoreAll() ([]AccountHealth, error) {
	activity, err := s.repo.ActivityIndex()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	accounts := s.repo.List()
	scores := make([]AccountHealth, 0, len(accounts))
	for _, a := range accounts {
		scores = append(scores, AccountHealth{
			AccountID:   a.ID,
			Code:        a.Code,
			Name:        a.Name,
			HealthScore: ScoreAccount(a, activity[a.ID], now),
		})
	}
	return scores, nil
}

// Insights generates the portfolio-level observation list.
func (s *healthService) Insights() ([]Insight, error) {
	activity, err := s.repo.ActivityIndex()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var insights []Insight
	var unusedActive, zeroBalance int

	for _, a := range s.repo.List() {
		act := activity[a.ID]

		if !a.IsActive && a.HasBalance() {
			insights = append(insights, Insight{
				Message:    fmt.Sprintf("Inactive account %q still carries a balance of %.2f %s", a.Name, a.Balance, a.CurrencyOrDefault()),
				AccountIDs: []string{a.ID},
			})
		}
		if a.IsCore && act.TransactionCount == 0 {
			insights = append(insights, Insight{
				Message:    fmt.Sprintf("Core account %q has no transactions", a.Name),
				AccountIDs: []string{a.ID},
			})
		}
		if act.LastTransaction != nil && now.Sub(*act.LastTransaction).Hours() > unusedAfterDays*24 {
			insights = append(insights, Insight{
				Message:    fmt.Sprintf("Account %q has not been used in over %d days", a.Name, unusedAfterDays),
				AccountIDs: []string{a.ID},
			})
		}
		if !a.HasBalance() && act.TransactionCount == 0 {
			insights = append(insights, Insight{
				Message:    fmt.Sprintf("Account %q has zero balance and no transactions", a.Name),
				AccountIDs: []string{a.ID},
			})
		}

		if a.IsActive && act.TransactionCount == 0 {
			unusedActive++
		}
		if !a.HasBalance() {
			zeroBalance++
		}
	}

	if unusedActive > unusedActiveThreshold {
		insights = append(insights, Insight{
			Message: fmt.Sprintf("%d active accounts have never been used", unusedActive),
		})
	}
	if zeroBalance > zeroBalanceThreshold {
		insights = append(insights, Insight{
			Message: fmt.Sprintf("%d accounts have a zero balance", zeroBalance),
		})
	}
	return insights, nil
}
