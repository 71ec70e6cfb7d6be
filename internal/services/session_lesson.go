package services

import (
	"context"
	"fmt"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/notify"
	"github.com/vytor/learnearn/internal/quiz"
	"github.com/vytor/learnearn/internal/wallet"
)

func (s *sessionService) SelectLanguage(ctx context.Context, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountLocked(); err != nil {
		return err
	}
	if !s.catalog.HasLanguage(language) {
		return errors.NewValidationError("Please choose a supported language", ErrUnknownLanguage)
	}
	if s.screen == models.ScreenLesson {
		return invalidTransition("Changing language")
	}

	logger.FromContext(ctx).WithPrefix("session").Debug("language selected: %s", language)
	s.account.SelectedLanguage = language
	s.saveLocked(ctx)
	s.cancelTimersLocked()
	s.screen = models.ScreenLessonList
	s.toast(notify.Success, fmt.Sprintf("%s selected! 🇿🇦", language))
	s.pulse(notify.Light)
	return nil
}

func (s *sessionService) Navigate(ctx context.Context, screen models.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountLocked(); err != nil {
		return err
	}
	if !screen.Navigable() {
		return errors.NewBadRequestError(fmt.Sprintf("Unknown screen %q", screen))
	}
	if s.lesson != nil && s.lesson.State() == quiz.Complete {
		// the reward is already banked; leaving still counts as finishing
		s.finishLessonLocked(ctx)
	}

	logger.FromContext(ctx).WithPrefix("session").Debug("navigate %s -> %s", s.screen, screen)
	s.cancelTimersLocked()
	s.lesson = nil
	s.screen = screen
	return nil
}

func (s *sessionService) StartLesson(ctx context.Context, lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountLocked(); err != nil {
		return err
	}
	if s.screen != models.ScreenLessonList {
		return invalidTransition("Starting a lesson")
	}
	language := s.account.SelectedLanguage
	lesson, ok := s.catalog.Lesson(language, lessonID)
	if !ok {
		appErr := errors.NewNotFoundError("lesson", lessonID)
		appErr.Err = ErrLessonNotFound
		return appErr
	}
	session, err := quiz.New(lesson)
	if err != nil {
		return errors.NewInternalError(err)
	}

	logger.FromContext(ctx).WithPrefix("session").Info("starting lesson %s (%s)", lesson.ID, language)
	s.cancelTimersLocked()
	s.lesson = session
	s.lessonLanguage = language
	s.screen = models.ScreenLesson
	s.pulse(notify.Light)
	return nil
}

// Answer records the choice and opens the feedback window, after which the
// next question (or the completion modal) is shown.
func (s *sessionService) Answer(ctx context.Context, option int) (quiz.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lesson == nil || s.screen != models.ScreenLesson {
		appErr := invalidTransition("Answering")
		appErr.Err = ErrNoActiveLesson
		return quiz.Result{}, appErr
	}
	res, err := s.lesson.Answer(option)
	if err != nil {
		return quiz.Result{}, quizError(err)
	}

	q, i := s.lesson.Question()
	logger.FromContext(ctx).WithPrefix("session").Debug("answer q%d option=%d correct=%t (expected %d)", i, option, res.Correct, q.Correct)
	lesson := s.lesson
	s.scheduleLocked(s.opts.FeedbackDelay, func(ctx context.Context) {
		if s.lesson == lesson {
			s.advanceLocked(ctx)
		}
	})
	return res, nil
}

// advanceLocked ends the feedback window. On the last question the
// accumulated total is banked as one reward transaction.
func (s *sessionService) advanceLocked(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("session")

	total, done, err := s.lesson.Advance()
	if err != nil {
		log.Warn("advance ignored: %v", err)
		return
	}
	if !done || s.account == nil {
		return
	}

	title := s.lesson.Lesson().Title
	if total <= 0 {
		log.Info("lesson %s finished with no correct answers", s.lesson.Lesson().ID)
		acc := wallet.CountLesson(*s.account)
		s.account = &acc
		s.saveLocked(ctx)
		s.toast(notify.Info, "No CELO this time. Keep practising! 💪")
		return
	}
	acc, tx, err := wallet.AddReward(*s.account, total, title, s.now())
	if err != nil {
		log.Error("failed to add lesson reward: %v", err)
		return
	}
	s.account = &acc
	s.saveLocked(ctx)
	log.Info("lesson reward %.4f recorded as tx %s", tx.Amount, tx.ID)
	s.toast(notify.Success, fmt.Sprintf("+%.2f CELO earned! 🎉", total))
	s.pulse(notify.Medium)
}

func (s *sessionService) FinishLesson(ctx context.Context, viewWallet bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lesson == nil || s.lesson.State() != quiz.Complete {
		appErr := invalidTransition("Finishing the lesson")
		appErr.Err = ErrLessonNotComplete
		return appErr
	}
	s.finishLessonLocked(ctx)
	if viewWallet {
		s.screen = models.ScreenWallet
	}
	return nil
}

// finishLessonLocked applies completion bookkeeping once and returns to the
// lesson list.
func (s *sessionService) finishLessonLocked(ctx context.Context) {
	lesson := s.lesson.Lesson()
	if s.account != nil {
		acc, added := wallet.CompleteLesson(*s.account, lesson.ID, s.lessonLanguage)
		if added {
			s.account = &acc
			s.saveLocked(ctx)
			logger.FromContext(ctx).WithPrefix("session").Info("lesson %s completed, streak=%d", lesson.ID, acc.Streak)
		}
	}
	s.pulse(notify.Heavy)
	s.cancelTimersLocked()
	s.lesson = nil
	s.lessonLanguage = ""
	s.screen = models.ScreenLessonList
}

// LeaveLesson abandons the quiz. A finished quiz is finished instead, so
// completion is never skipped once the reward was paid.
func (s *sessionService) LeaveLesson(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lesson == nil {
		appErr := invalidTransition("Leaving the lesson")
		appErr.Err = ErrNoActiveLesson
		return appErr
	}
	if s.lesson.State() == quiz.Complete {
		s.finishLessonLocked(ctx)
		return nil
	}

	logger.FromContext(ctx).WithPrefix("session").Debug("lesson %s abandoned", s.lesson.Lesson().ID)
	s.cancelTimersLocked()
	s.lesson = nil
	s.lessonLanguage = ""
	s.screen = models.ScreenLessonList
	return nil
}
