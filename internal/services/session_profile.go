package services

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/notify"
)

// AvatarOptions are the avatars offered on the profile edit form.
var AvatarOptions = []string{"👤", "😊", "🎓", "🌟", "💪", "🚀", "🎯", "🔥", "💡", "🏆"}

// DailyGoalOptions are the allowed daily lesson goals.
var DailyGoalOptions = []int{3, 5, 10}

// UpdateProfile renames the account and/or changes its avatar. A rename
// moves the stored record to the new key.
func (s *sessionService) UpdateProfile(ctx context.Context, username, avatar string) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	name := strings.TrimSpace(username)
	if name == "" {
		return errors.NewValidationError("Please enter your name", ErrUsernameRequired)
	}
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return errors.NewValidationError("Please choose an avatar", ErrAvatarRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountLocked(); err != nil {
		return err
	}

	accounts := s.repo.LoadAll(ctx)
	old := s.account.Username
	if name != old {
		if _, taken := accounts[name]; taken {
			return errors.NewValidationError("That name is already taken", ErrUsernameTaken)
		}
		delete(accounts, old)
		log.Info("renaming account %s -> %s", old, name)
	}

	s.account.Username = name
	s.account.Avatar = avatar
	accounts[name] = s.account.Clone()
	s.repo.SaveAll(ctx, accounts)

	s.toast(notify.Success, "Profile updated! ✅")
	s.pulse(notify.Light)
	return nil
}

func (s *sessionService) UpdateSettings(ctx context.Context, soundEnabled bool, dailyGoal int) error {
	if !lo.Contains(DailyGoalOptions, dailyGoal) {
		return errors.NewValidationError("Daily goal must be 3, 5 or 10 lessons", ErrInvalidDailyGoal)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountLocked(); err != nil {
		return err
	}
	logger.FromContext(ctx).WithPrefix("session").Debug("settings: sound=%t goal=%d", soundEnabled, dailyGoal)
	s.account.SoundEnabled = soundEnabled
	s.account.DailyGoal = dailyGoal
	s.saveLocked(ctx)
	s.toast(notify.Success, "Settings saved! ✅")
	return nil
}
