// Package wallet applies reward and transaction bookkeeping to accounts.
//
// Every function is pure: it takes an account by value, returns the updated
// copy and the transaction it recorded, and never touches storage. Callers
// persist the result.
package wallet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/vytor/learnearn/internal/models"
)

var (
	// ErrInvalidAmount is returned for non-numeric, non-finite or non-positive amounts.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrInsufficientBalance is returned when a debit exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

const (
	DailyRewardBase      = 0.05
	DailyRewardPerStreak = 0.01
	DailyRewardInterval  = 24 * time.Hour

	// XPPerToken converts earned tokens into experience points.
	XPPerToken = 100

	DailyBonusDescription = "Daily Login Bonus"
)

// ParseAmount parses user input into a validated amount.
func ParseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if err := validateAmount(amount); err != nil {
		return 0, err
	}
	return amount, nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// AddReward credits a lesson reward: balance, lifetime rewards, XP and daily
// progress all move together.
func AddReward(acc models.Account, amount float64, reason string, now time.Time) (models.Account, models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return acc, models.Transaction{}, err
	}
	out := acc.Clone()
	out.CeloBalance += amount
	out.TotalRewards += amount
	out.XP += experienceFor(amount)
	out.DailyProgress++

	tx := newTransaction(out.Transactions, models.TxReward, amount, "Completed: "+reason, now)
	out.Transactions = appendTransaction(out.Transactions, tx)
	return out, tx, nil
}

// CountLesson moves the daily goal for a lesson that earned nothing.
func CountLesson(acc models.Account) models.Account {
	out := acc.Clone()
	out.DailyProgress++
	return out
}

// ClaimDailyReward credits the login bonus and stamps the claim time.
// Daily progress is left alone; only lessons count towards the goal.
func ClaimDailyReward(acc models.Account, amount float64, now time.Time) (models.Account, models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return acc, models.Transaction{}, err
	}
	out := acc.Clone()
	out.CeloBalance += amount
	out.TotalRewards += amount
	out.XP += experienceFor(amount)
	claimed := now
	out.LastDailyReward = &claimed

	tx := newTransaction(out.Transactions, models.TxReward, amount, DailyBonusDescription, now)
	out.Transactions = appendTransaction(out.Transactions, tx)
	return out, tx, nil
}

// CompleteLesson records a lesson as completed for a language. The second
// return is false when the lesson was already completed, in which case the
// account is returned unchanged.
func CompleteLesson(acc models.Account, lessonID, language string) (models.Account, bool) {
	if lo.Contains(acc.CompletedFor(language), lessonID) {
		return acc, false
	}
	out := acc.Clone()
	if out.CompletedLessons == nil {
		out.CompletedLessons = make(map[string][]string)
	}
	out.CompletedLessons[language] = append(out.CompletedLessons[language], lessonID)
	out.LessonsCompleted++
	out.Streak++
	return out, true
}

func Deposit(acc models.Account, amount float64, now time.Time) (models.Account, models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return acc, models.Transaction{}, err
	}
	out := acc.Clone()
	out.CeloBalance += amount
	tx := newTransaction(out.Transactions, models.TxDeposit, amount, "Deposit to wallet", now)
	out.Transactions = appendTransaction(out.Transactions, tx)
	return out, tx, nil
}

func Withdraw(acc models.Account, amount float64, now time.Time) (models.Account, models.Transaction, error) {
	return debit(acc, models.TxWithdraw, amount, "Withdraw from wallet", now)
}

func Send(acc models.Account, amount float64, now time.Time) (models.Account, models.Transaction, error) {
	return debit(acc, models.TxSend, amount, "Sent to friend", now)
}

func debit(acc models.Account, kind models.TransactionKind, amount float64, description string, now time.Time) (models.Account, models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return acc, models.Transaction{}, err
	}
	if amount > acc.CeloBalance {
		return acc, models.Transaction{}, ErrInsufficientBalance
	}
	out := acc.Clone()
	out.CeloBalance -= amount
	tx := newTransaction(out.Transactions, kind, amount, description, now)
	out.Transactions = appendTransaction(out.Transactions, tx)
	return out, tx, nil
}

// DailyRewardEligible reports whether a bonus can be offered at login.
func DailyRewardEligible(last *time.Time, now time.Time) bool {
	if last == nil || last.IsZero() {
		return true
	}
	return now.Sub(*last) >= DailyRewardInterval
}

// DailyRewardAmount is the base bonus plus a per-streak increment.
func DailyRewardAmount(streak int) float64 {
	return DailyRewardBase + float64(streak)*DailyRewardPerStreak
}

func experienceFor(amount float64) int {
	return int(math.Floor(amount * XPPerToken))
}

// newTransaction derives the id from the creation time, bumping it past the
// newest entry so ids stay unique within one millisecond.
func newTransaction(history []models.Transaction, kind models.TransactionKind, amount float64, description string, now time.Time) models.Transaction {
	id := now.UnixMilli()
	if len(history) > 0 {
		if prev, err := strconv.ParseInt(history[0].ID, 10, 64); err == nil && prev >= id {
			id = prev + 1
		}
	}
	return models.Transaction{
		ID:          strconv.FormatInt(id, 10),
		Kind:        kind,
		Amount:      amount,
		Date:        now,
		Description: description,
	}
}

// appendTransaction prepends tx and keeps the newest MaxTransactions entries.
func appendTransaction(history []models.Transaction, tx models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, min(len(history)+1, models.MaxTransactions))
	out = append(out, tx)
	out = append(out, history...)
	if len(out) > models.MaxTransactions {
		out = out[:models.MaxTransactions]
	}
	return out
}
