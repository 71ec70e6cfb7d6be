package services

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/repository"
	"github.com/vytor/learnearn/internal/wallet"
)

// AccountSummary is the read-only overview printed by the accounts command.
type AccountSummary struct {
	Username         string    `json:"username" yaml:"username"`
	Level            int       `json:"level" yaml:"level"`
	XP               int       `json:"xp" yaml:"xp"`
	Streak           int       `json:"streak" yaml:"streak"`
	LessonsCompleted int       `json:"lessonsCompleted" yaml:"lessonsCompleted"`
	Balance          float64   `json:"celoBalance" yaml:"celoBalance"`
	Transactions     int       `json:"transactions" yaml:"transactions"`
	LastLogin        time.Time `json:"lastLogin" yaml:"lastLogin"`
}

// AccountService reads stored accounts outside of a session.
type AccountService interface {
	ListAccounts(ctx context.Context) []AccountSummary
	GetAccount(ctx context.Context, username string) (*AccountSummary, error)
}

type accountService struct {
	repo repository.AccountRepository
}

func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) ListAccounts(ctx context.Context) []AccountSummary {
	log := logger.FromContext(ctx)
	log.Debug("listing accounts")

	accounts := s.repo.LoadAll(ctx)
	out := lo.MapToSlice(accounts, func(name string, acc models.Account) AccountSummary {
		return summarize(name, acc)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *accountService) GetAccount(ctx context.Context, username string) (*AccountSummary, error) {
	acc, ok := s.repo.LoadAll(ctx)[username]
	if !ok {
		return nil, errors.NewNotFoundError("account", username)
	}
	summary := summarize(username, acc)
	return &summary, nil
}

func summarize(name string, acc models.Account) AccountSummary {
	return AccountSummary{
		Username:         name,
		Level:            wallet.Level(acc.XP),
		XP:               acc.XP,
		Streak:           acc.Streak,
		LessonsCompleted: acc.LessonsCompleted,
		Balance:          acc.CeloBalance,
		Transactions:     len(acc.Transactions),
		LastLogin:        acc.LastLogin,
	}
}
