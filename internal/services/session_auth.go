package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/notify"
	"github.com/vytor/learnearn/internal/quiz"
	"github.com/vytor/learnearn/internal/wallet"
)

const PINLength = 5

// SanitizePIN keeps only digits and caps the result at PINLength.
func SanitizePIN(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == PINLength {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *sessionService) LookupUser(ctx context.Context, username string) bool {
	name := strings.TrimSpace(username)
	if len([]rune(name)) < 2 {
		return false
	}
	_, ok := s.repo.LoadAll(ctx)[name]
	return ok
}

func (s *sessionService) Login(ctx context.Context, username, pin string) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	name := strings.TrimSpace(username)
	if name == "" {
		return errors.NewValidationError("Please enter your name", ErrUsernameRequired)
	}
	pin = SanitizePIN(pin)
	if len(pin) != PINLength {
		return errors.NewValidationError("PIN must be exactly 5 digits", ErrInvalidPIN)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.login != nil {
		appErr := errors.NewBadRequestError("Login already in progress")
		appErr.Err = ErrLoginInProgress
		return appErr
	}
	if s.screen != models.ScreenLogin {
		return invalidTransition("Login")
	}

	pending := &pendingLogin{username: name, pin: pin}
	if existing, ok := s.repo.LoadAll(ctx)[name]; ok {
		if existing.Password != pin {
			log.Info("incorrect pin for %s", name)
			return errors.NewAuthError("Incorrect PIN. Please try again.", ErrIncorrectPIN)
		}
		pending.existing = &existing
	}

	log.Debug("login accepted for %s, returning=%t", name, pending.existing != nil)
	s.login = pending
	s.scheduleLocked(s.opts.LoginDelay, func(ctx context.Context) {
		s.completeLoginLocked(ctx, pending)
	})
	return nil
}

func (s *sessionService) completeLoginLocked(ctx context.Context, p *pendingLogin) {
	log := logger.FromContext(ctx).WithPrefix("session")
	now := s.now()
	s.login = nil

	if p.existing != nil {
		acc := p.existing.Clone()
		if wallet.DailyRewardEligible(acc.LastDailyReward, now) {
			s.dailyReward = &DailyRewardPrompt{Amount: wallet.DailyRewardAmount(acc.Streak), Streak: acc.Streak}
			log.Info("daily reward available for %s: %.2f", acc.Username, s.dailyReward.Amount)
		}
		acc.LastLogin = now
		acc.DailyProgress = 0
		s.account = &acc
		s.toast(notify.Success, fmt.Sprintf("Welcome back, %s! 👋", acc.Username))
		s.pulse(notify.Medium)
	} else {
		acc := models.NewAccount(p.username, p.pin, now)
		s.account = &acc
		log.Info("created account %s", acc.Username)
		s.toast(notify.Success, fmt.Sprintf("Account created! Welcome, %s! 🎉", acc.Username))
		s.pulse(notify.Heavy)
	}

	s.saveLocked(ctx)
	s.screen = models.ScreenLanguageSelection
}

func (s *sessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account != nil {
		logger.FromContext(ctx).WithPrefix("session").Info("logging out %s", s.account.Username)
		s.toast(notify.Info, "Logged out successfully. See you soon! 👋")
		s.pulse(notify.Medium)
	}
	if s.lesson != nil && s.lesson.State() == quiz.Complete {
		s.finishLessonLocked(ctx)
	}
	s.resetLocked()
	s.screen = models.ScreenLogin
}
