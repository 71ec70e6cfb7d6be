package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/notify"
	"github.com/vytor/learnearn/internal/wallet"
)

type walletOp func(models.Account, float64, time.Time) (models.Account, models.Transaction, error)

func (s *sessionService) Deposit(ctx context.Context, amount string) (models.Transaction, error) {
	return s.applyWalletOp(ctx, amount, wallet.Deposit, "Deposited %.2f CELO successfully! 💰")
}

func (s *sessionService) Withdraw(ctx context.Context, amount string) (models.Transaction, error) {
	return s.applyWalletOp(ctx, amount, wallet.Withdraw, "Withdrawn %.2f CELO successfully! ✅")
}

func (s *sessionService) Send(ctx context.Context, amount string) (models.Transaction, error) {
	return s.applyWalletOp(ctx, amount, wallet.Send, "Sent %.2f CELO successfully! 🚀")
}

func (s *sessionService) applyWalletOp(ctx context.Context, raw string, op walletOp, success string) (models.Transaction, error) {
	log := logger.FromContext(ctx).WithPrefix("session")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountLocked(); err != nil {
		return models.Transaction{}, err
	}
	amount, err := wallet.ParseAmount(raw)
	if err != nil {
		log.Debug("rejected amount %q: %v", raw, err)
		return models.Transaction{}, walletError(err)
	}
	acc, tx, err := op(*s.account, amount, s.now())
	if err != nil {
		log.Debug("wallet operation rejected: %v", err)
		return models.Transaction{}, walletError(err)
	}

	s.account = &acc
	s.saveLocked(ctx)
	log.Info("%s %.4f, balance now %.4f", tx.Kind, tx.Amount, acc.CeloBalance)
	s.toast(notify.Success, fmt.Sprintf(success, amount))
	return tx, nil
}

func (s *sessionService) ClaimDailyReward(ctx context.Context) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountLocked(); err != nil {
		return models.Transaction{}, err
	}
	if s.dailyReward == nil {
		appErr := errors.NewBadRequestError("No daily reward to claim")
		appErr.Err = ErrNoDailyRewardReady
		return models.Transaction{}, appErr
	}

	amount := s.dailyReward.Amount
	acc, tx, err := wallet.ClaimDailyReward(*s.account, amount, s.now())
	if err != nil {
		return models.Transaction{}, walletError(err)
	}
	s.account = &acc
	s.dailyReward = nil
	s.saveLocked(ctx)

	logger.FromContext(ctx).WithPrefix("session").Info("daily reward %.2f claimed by %s", amount, acc.Username)
	s.toast(notify.Success, fmt.Sprintf("Daily reward claimed! +%.2f CELO 🎁", amount))
	s.pulse(notify.Heavy)
	return tx, nil
}
