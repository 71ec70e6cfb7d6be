package services

import (
	stderrors "errors"
	"fmt"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/quiz"
	"github.com/vytor/learnearn/internal/wallet"
)

// Session failures. Operations return them wrapped in an *errors.AppError
// carrying the user-facing message; match with errors.Is.
var (
	ErrUsernameRequired = stderrors.New("username required")
	ErrInvalidPIN       = stderrors.New("pin must be exactly 5 digits")
	ErrIncorrectPIN     = stderrors.New("incorrect pin")
	ErrUsernameTaken    = stderrors.New("username already taken")
	ErrAvatarRequired   = stderrors.New("avatar required")
	ErrInvalidDailyGoal = stderrors.New("invalid daily goal")
	ErrUnknownLanguage  = stderrors.New("unknown language")
	ErrLessonNotFound   = stderrors.New("lesson not found")

	ErrNotLoggedIn        = stderrors.New("not logged in")
	ErrLoginInProgress    = stderrors.New("login in progress")
	ErrInvalidTransition  = stderrors.New("action not available on this screen")
	ErrNoActiveLesson     = stderrors.New("no active lesson")
	ErrLessonNotComplete  = stderrors.New("lesson not complete")
	ErrNoDailyRewardReady = stderrors.New("no daily reward to claim")
)

func invalidTransition(action string) *errors.AppError {
	appErr := errors.NewBadRequestError(fmt.Sprintf("%s is not available right now", action))
	appErr.Err = ErrInvalidTransition
	return appErr
}

func notLoggedIn() *errors.AppError {
	return errors.NewAuthError("Please log in first", ErrNotLoggedIn)
}

// walletError maps engine failures onto the toast messages users see.
func walletError(err error) error {
	switch {
	case stderrors.Is(err, wallet.ErrInsufficientBalance):
		return errors.NewInsufficientBalanceError(err)
	case stderrors.Is(err, wallet.ErrInvalidAmount):
		return errors.NewValidationError("Please enter a valid amount", err)
	default:
		return errors.NewInternalError(err)
	}
}

func quizError(err error) error {
	switch {
	case stderrors.Is(err, quiz.ErrInvalidOption):
		return errors.NewValidationError("Please choose one of the answers", err)
	case stderrors.Is(err, quiz.ErrAwaitingAdvance), stderrors.Is(err, quiz.ErrComplete):
		wrapped := invalidTransition("Answering")
		wrapped.Err = err
		return wrapped
	default:
		return errors.NewInternalError(err)
	}
}
