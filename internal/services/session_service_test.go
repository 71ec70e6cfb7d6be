package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/learnearn/internal/catalog"
	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/notify"
	"github.com/vytor/learnearn/internal/quiz"
	"github.com/vytor/learnearn/internal/repository"
	"github.com/vytor/learnearn/internal/repository/memory"
	"github.com/vytor/learnearn/internal/services"
	"github.com/vytor/learnearn/internal/testutil"
	"github.com/vytor/learnearn/internal/testutil/mocks"
)

var start = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type SessionServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    repository.AccountRepository
	sched   *testutil.ManualScheduler
	clock   *testutil.Clock
	queue   *notify.Queue
	session services.SessionService
}

func (s *SessionServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repository.NewAccountRepository(memory.NewKVStore(), "")
	s.sched = testutil.NewManualScheduler()
	s.clock = testutil.NewClock(start)
	s.queue = notify.NewQueue()
	s.session = services.NewSessionService(catalog.MustDefault(), s.repo, services.SessionOptions{
		SplashDelay:   services.DefaultSplashDelay,
		FeedbackDelay: services.DefaultFeedbackDelay,
		LoginDelay:    services.DefaultLoginDelay,
		Scheduler:     s.sched,
		Clock:         s.clock.Now,
		Notifier:      s.queue,
		Haptics:       s.queue,
	})
}

func (s *SessionServiceSuite) TearDownTest() {
	s.session.Close()
}

func (s *SessionServiceSuite) login(username, pin string) {
	s.Require().NoError(s.session.Login(s.ctx, username, pin))
	s.sched.Advance(services.DefaultLoginDelay)
	s.Require().Equal(models.ScreenLanguageSelection, s.session.Snapshot().Screen)
}

func (s *SessionServiceSuite) stored(username string) models.Account {
	acc, ok := s.repo.LoadAll(s.ctx)[username]
	s.Require().True(ok, "account %s not persisted", username)
	return acc
}

// playLesson answers every question, picking the correct option when
// correct(i) is true, and lets each feedback window run out.
func (s *SessionServiceSuite) playLesson(lessonID string, correct func(i int) bool) {
	s.Require().NoError(s.session.StartLesson(s.ctx, lessonID))
	for i := 0; ; i++ {
		view := s.session.Snapshot().Lesson
		s.Require().NotNil(view)
		option := view.Question.Correct
		if !correct(i) {
			option = (option + 1) % len(view.Question.Options)
		}
		res, err := s.session.Answer(s.ctx, option)
		s.Require().NoError(err)
		s.sched.Advance(services.DefaultFeedbackDelay)
		if res.Last {
			return
		}
	}
}

func allCorrect(int) bool { return true }

func (s *SessionServiceSuite) TestSplashAdvancesToOnboarding() {
	s.session.Start(s.ctx)
	s.Assert().Equal(models.ScreenSplash, s.session.Snapshot().Screen)

	s.sched.Advance(2499 * time.Millisecond)
	s.Assert().Equal(models.ScreenSplash, s.session.Snapshot().Screen)

	s.sched.Advance(time.Millisecond)
	s.Assert().Equal(models.ScreenOnboarding, s.session.Snapshot().Screen)

	s.Require().NoError(s.session.CompleteOnboarding(s.ctx))
	s.Assert().Equal(models.ScreenLogin, s.session.Snapshot().Screen)
}

func (s *SessionServiceSuite) TestSkippingSplashCancelsTimer() {
	s.session.Start(s.ctx)
	s.Require().NoError(s.session.CompleteOnboarding(s.ctx))
	s.Assert().Zero(s.sched.Pending())

	s.sched.Advance(5 * time.Second)
	s.Assert().Equal(models.ScreenLogin, s.session.Snapshot().Screen)
}

func (s *SessionServiceSuite) TestNewUserCompletesGreetings() {
	s.login("  Thembi ", "12345")

	snap := s.session.Snapshot()
	s.Require().NotNil(snap.Account)
	s.Assert().Equal("Thembi", snap.Account.Username)
	s.Assert().Equal("T", snap.Account.Avatar)
	s.Assert().Zero(snap.Account.CeloBalance)
	s.Assert().Zero(snap.Account.Streak)
	s.Assert().Empty(snap.Account.Password, "snapshot must not expose the PIN")
	s.Assert().Nil(snap.DailyReward)
	s.Assert().Equal("12345", s.stored("Thembi").Password)

	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))
	s.playLesson("zulu-greetings", allCorrect)

	snap = s.session.Snapshot()
	s.Require().NotNil(snap.Lesson)
	s.Assert().True(snap.Lesson.Done())
	s.Assert().Equal(0.5, snap.Account.CeloBalance)
	s.Assert().Equal(50, snap.Account.XP)
	s.Require().Len(snap.Account.Transactions, 1)
	s.Assert().Equal(models.TxReward, snap.Account.Transactions[0].Kind)
	s.Assert().Equal(0.5, snap.Account.Transactions[0].Amount)
	s.Assert().Equal("Completed: Greetings", snap.Account.Transactions[0].Description)

	s.Require().NoError(s.session.FinishLesson(s.ctx, false))

	acc := s.stored("Thembi")
	s.Assert().Equal(1, acc.LessonsCompleted)
	s.Assert().Equal(1, acc.Streak)
	s.Assert().Equal(50, acc.XP)
	s.Assert().Equal(0.5, acc.CeloBalance)
	s.Assert().Equal(1, acc.DailyProgress)
	s.Assert().Equal([]string{"zulu-greetings"}, acc.CompletedFor(models.LanguageZulu))
	s.Assert().Equal(models.ScreenLessonList, s.session.Snapshot().Screen)
}

func (s *SessionServiceSuite) TestFinishLessonToWallet() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))
	s.playLesson("zulu-numbers", allCorrect)

	s.Require().NoError(s.session.FinishLesson(s.ctx, true))
	s.Assert().Equal(models.ScreenWallet, s.session.Snapshot().Screen)
	s.Assert().Equal(1, s.stored("Thembi").LessonsCompleted)
}

func (s *SessionServiceSuite) TestReplayedLessonPaysAgainWithoutStreak() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))

	for i := 0; i < 2; i++ {
		s.playLesson("zulu-greetings", allCorrect)
		s.Require().NoError(s.session.FinishLesson(s.ctx, false))
	}

	acc := s.stored("Thembi")
	s.Assert().Equal(1.0, acc.CeloBalance)
	s.Assert().Len(acc.Transactions, 2)
	s.Assert().Equal(1, acc.LessonsCompleted)
	s.Assert().Equal(1, acc.Streak)
	s.Assert().Equal(100, acc.XP, "lesson rewards still convert to XP")
}

func (s *SessionServiceSuite) TestPartialScore() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))

	s.playLesson("zulu-greetings", func(i int) bool { return i%2 == 0 })

	acc := s.session.Snapshot().Account
	s.Assert().Equal(0.25, acc.CeloBalance)
	s.Assert().Equal(25, acc.XP)
}

func (s *SessionServiceSuite) TestZeroScoreRecordsNoTransaction() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))

	s.playLesson("zulu-greetings", func(int) bool { return false })
	s.Require().NoError(s.session.FinishLesson(s.ctx, false))

	acc := s.stored("Thembi")
	s.Assert().Empty(acc.Transactions)
	s.Assert().Zero(acc.CeloBalance)
	s.Assert().Equal(1, acc.DailyProgress)
	s.Assert().Equal(1, acc.LessonsCompleted)
}

func (s *SessionServiceSuite) TestAnswerIgnoredDuringFeedback() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))
	s.Require().NoError(s.session.StartLesson(s.ctx, "zulu-greetings"))

	_, err := s.session.Answer(s.ctx, 0)
	s.Require().NoError(err)
	_, err = s.session.Answer(s.ctx, 0)
	s.Assert().ErrorIs(err, quiz.ErrAwaitingAdvance)

	s.sched.Advance(services.DefaultFeedbackDelay)
	s.Assert().Equal(1, s.session.Snapshot().Lesson.Index)
}

func (s *SessionServiceSuite) TestLeavingLessonCancelsFeedbackTimer() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))
	s.Require().NoError(s.session.StartLesson(s.ctx, "zulu-greetings"))

	lesson := s.session.Snapshot().Lesson
	_, err := s.session.Answer(s.ctx, lesson.Question.Correct)
	s.Require().NoError(err)
	s.Require().NoError(s.session.LeaveLesson(s.ctx))
	s.sched.Advance(time.Minute)

	snap := s.session.Snapshot()
	s.Assert().Equal(models.ScreenLessonList, snap.Screen)
	s.Assert().Nil(snap.Lesson)
	s.Assert().Zero(snap.Account.CeloBalance)
	s.Assert().Zero(snap.Account.LessonsCompleted)
}

func (s *SessionServiceSuite) TestRapidAnswersAcrossLessonsDoNotLeak() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))
	s.Require().NoError(s.session.StartLesson(s.ctx, "zulu-greetings"))
	_, err := s.session.Answer(s.ctx, 0)
	s.Require().NoError(err)

	s.Require().NoError(s.session.LeaveLesson(s.ctx))
	s.Require().NoError(s.session.StartLesson(s.ctx, "zulu-numbers"))
	s.sched.Advance(services.DefaultFeedbackDelay)

	lesson := s.session.Snapshot().Lesson
	s.Require().NotNil(lesson)
	s.Assert().Equal("zulu-numbers", lesson.Lesson.ID)
	s.Assert().Equal(0, lesson.Index)
	s.Assert().Equal(quiz.Presenting, lesson.State)
}

func (s *SessionServiceSuite) TestNavigateAwayFromFinishedLessonCompletesIt() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))
	s.playLesson("zulu-greetings", allCorrect)

	s.Require().NoError(s.session.Navigate(s.ctx, models.ScreenProfile))
	s.Assert().Equal(models.ScreenProfile, s.session.Snapshot().Screen)
	s.Assert().Equal(1, s.stored("Thembi").LessonsCompleted)
}

func (s *SessionServiceSuite) TestReturningUserDailyReward() {
	last := start.Add(-25 * time.Hour)
	acc := models.NewAccount("Sipho", "54321", start.Add(-48*time.Hour))
	acc.Streak = 3
	acc.CeloBalance = 1
	acc.DailyProgress = 2
	acc.LastDailyReward = &last
	s.repo.SaveAll(s.ctx, map[string]models.Account{"Sipho": acc})

	s.Assert().True(s.session.LookupUser(s.ctx, " Sipho "))
	s.login("Sipho", "54321")

	snap := s.session.Snapshot()
	s.Require().NotNil(snap.DailyReward)
	s.Assert().InDelta(0.08, snap.DailyReward.Amount, 1e-9)
	s.Assert().Equal(3, snap.DailyReward.Streak)
	s.Assert().Zero(snap.Account.DailyProgress)
	s.Assert().True(snap.Account.LastLogin.Equal(start))

	tx, err := s.session.ClaimDailyReward(s.ctx)
	s.Require().NoError(err)
	s.Assert().InDelta(0.08, tx.Amount, 1e-9)
	s.Assert().Equal("Daily Login Bonus", tx.Description)

	stored := s.stored("Sipho")
	s.Assert().InDelta(1.08, stored.CeloBalance, 1e-9)
	s.Require().Len(stored.Transactions, 1)
	s.Assert().Equal(models.TxReward, stored.Transactions[0].Kind)
	s.Require().NotNil(stored.LastDailyReward)
	s.Assert().True(stored.LastDailyReward.Equal(start))
	s.Assert().Nil(s.session.Snapshot().DailyReward)

	_, err = s.session.ClaimDailyReward(s.ctx)
	s.Assert().ErrorIs(err, services.ErrNoDailyRewardReady)
}

func (s *SessionServiceSuite) TestDailyRewardNotOfferedWithin24h() {
	last := start.Add(-(23*time.Hour + 59*time.Minute))
	acc := models.NewAccount("Sipho", "54321", start)
	acc.LastDailyReward = &last
	s.repo.SaveAll(s.ctx, map[string]models.Account{"Sipho": acc})

	s.login("Sipho", "54321")

	s.Assert().Nil(s.session.Snapshot().DailyReward)
	_, err := s.session.ClaimDailyReward(s.ctx)
	s.Assert().ErrorIs(err, services.ErrNoDailyRewardReady)
}

func (s *SessionServiceSuite) TestIncorrectPIN() {
	s.repo.SaveAll(s.ctx, map[string]models.Account{"Sipho": models.NewAccount("Sipho", "54321", start)})

	err := s.session.Login(s.ctx, "Sipho", "12345")
	s.Assert().ErrorIs(err, services.ErrIncorrectPIN)
	s.Assert().True(errors.HasCode(err, errors.ErrCodeAuth))
	s.Assert().Zero(s.sched.Pending())

	snap := s.session.Snapshot()
	s.Assert().Equal(models.ScreenLogin, snap.Screen)
	s.Assert().Nil(snap.Account)
	s.Assert().Equal("54321", s.stored("Sipho").Password)
}

func (s *SessionServiceSuite) TestLoginValidation() {
	err := s.session.Login(s.ctx, "   ", "12345")
	s.Assert().ErrorIs(err, services.ErrUsernameRequired)
	s.Assert().True(errors.HasCode(err, errors.ErrCodeValidation))

	err = s.session.Login(s.ctx, "Thembi", "12a4")
	s.Assert().ErrorIs(err, services.ErrInvalidPIN)

	s.Assert().Empty(s.repo.LoadAll(s.ctx))
}

func (s *SessionServiceSuite) TestLoginWhilePending() {
	s.Require().NoError(s.session.Login(s.ctx, "Thembi", "12345"))
	s.Assert().True(s.session.Snapshot().LoggingIn)

	err := s.session.Login(s.ctx, "Thembi", "12345")
	s.Assert().ErrorIs(err, services.ErrLoginInProgress)
}

func (s *SessionServiceSuite) TestLogoutCancelsPendingLogin() {
	s.Require().NoError(s.session.Login(s.ctx, "Thembi", "12345"))
	s.session.Logout(s.ctx)
	s.sched.Advance(time.Second)

	snap := s.session.Snapshot()
	s.Assert().Equal(models.ScreenLogin, snap.Screen)
	s.Assert().Nil(snap.Account)
	s.Assert().Empty(s.repo.LoadAll(s.ctx))
}

func (s *SessionServiceSuite) TestLogoutKeepsPersistedAccount() {
	s.login("Thembi", "12345")
	_, err := s.session.Deposit(s.ctx, "3")
	s.Require().NoError(err)

	s.session.Logout(s.ctx)

	s.Assert().Nil(s.session.Snapshot().Account)
	s.Assert().Equal(3.0, s.stored("Thembi").CeloBalance)

	s.login("Thembi", "12345")
	s.Assert().Equal(3.0, s.session.Snapshot().Account.CeloBalance)
}

func (s *SessionServiceSuite) TestLogoutFromFinishedLessonCompletesIt() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageZulu))
	s.playLesson("zulu-greetings", allCorrect)
	s.Require().Equal(quiz.Complete, s.session.Snapshot().Lesson.State)

	s.session.Logout(s.ctx)

	acc := s.stored("Thembi")
	s.Assert().InDelta(0.5, acc.CeloBalance, 1e-9)
	s.Assert().Len(acc.Transactions, 1)
	s.Assert().Equal(1, acc.LessonsCompleted)
	s.Assert().Equal(1, acc.Streak)
	s.Assert().Contains(acc.CompletedFor(models.LanguageZulu), "zulu-greetings")
	s.Assert().Equal(models.ScreenLogin, s.session.Snapshot().Screen)
}

func (s *SessionServiceSuite) TestWalletOperations() {
	s.login("Thembi", "12345")

	_, err := s.session.Deposit(s.ctx, "abc")
	s.Assert().True(errors.HasCode(err, errors.ErrCodeValidation))
	_, err = s.session.Deposit(s.ctx, "-1")
	s.Assert().True(errors.HasCode(err, errors.ErrCodeValidation))

	tx, err := s.session.Deposit(s.ctx, "2.5")
	s.Require().NoError(err)
	s.Assert().Equal(models.TxDeposit, tx.Kind)

	_, err = s.session.Withdraw(s.ctx, "3")
	s.Assert().True(errors.HasCode(err, errors.ErrCodeInsufficientBalance))

	_, err = s.session.Send(s.ctx, "1")
	s.Require().NoError(err)
	_, err = s.session.Withdraw(s.ctx, "0.5")
	s.Require().NoError(err)

	acc := s.stored("Thembi")
	s.Assert().InDelta(1.0, acc.CeloBalance, 1e-9)
	s.Require().Len(acc.Transactions, 3)
	s.Assert().Equal(models.TxWithdraw, acc.Transactions[0].Kind)
	s.Assert().Equal(models.TxSend, acc.Transactions[1].Kind)
	s.Assert().Equal(models.TxDeposit, acc.Transactions[2].Kind)
}

func (s *SessionServiceSuite) TestUpdateProfileRename() {
	s.repo.SaveAll(s.ctx, map[string]models.Account{"Sipho": models.NewAccount("Sipho", "54321", start)})
	s.login("Thembi", "12345")

	err := s.session.UpdateProfile(s.ctx, "Sipho", "🚀")
	s.Assert().ErrorIs(err, services.ErrUsernameTaken)

	s.Require().NoError(s.session.UpdateProfile(s.ctx, " Thembi M ", "🚀"))

	accounts := s.repo.LoadAll(s.ctx)
	s.Assert().NotContains(accounts, "Thembi")
	s.Require().Contains(accounts, "Thembi M")
	s.Assert().Equal("🚀", accounts["Thembi M"].Avatar)
	s.Assert().Equal("12345", accounts["Thembi M"].Password)
	s.Assert().Contains(accounts, "Sipho")
	s.Assert().Equal("Thembi M", s.session.Snapshot().Account.Username)
}

func (s *SessionServiceSuite) TestUpdateSettings() {
	s.login("Thembi", "12345")

	err := s.session.UpdateSettings(s.ctx, true, 4)
	s.Assert().ErrorIs(err, services.ErrInvalidDailyGoal)

	s.Require().NoError(s.session.UpdateSettings(s.ctx, false, 10))
	acc := s.stored("Thembi")
	s.Assert().False(acc.SoundEnabled)
	s.Assert().Equal(10, acc.DailyGoal)
}

func (s *SessionServiceSuite) TestNavigation() {
	err := s.session.Navigate(s.ctx, models.ScreenWallet)
	s.Assert().ErrorIs(err, services.ErrNotLoggedIn)

	s.login("Thembi", "12345")
	s.Require().NoError(s.session.Navigate(s.ctx, models.ScreenLeaderboard))
	s.Assert().Equal(models.ScreenLeaderboard, s.session.Snapshot().Screen)

	s.Assert().Error(s.session.Navigate(s.ctx, models.ScreenLesson))
	s.Assert().Error(s.session.Navigate(s.ctx, models.ScreenLogin))
	s.Assert().Error(s.session.SelectLanguage(s.ctx, "Klingon"))

	err = s.session.StartLesson(s.ctx, "zulu-greetings")
	s.Assert().ErrorIs(err, services.ErrInvalidTransition, "lessons start from the lesson list")
}

func (s *SessionServiceSuite) TestStartLessonScopedToSelectedLanguage() {
	s.login("Thembi", "12345")
	s.Require().NoError(s.session.SelectLanguage(s.ctx, models.LanguageAfrikaans))

	err := s.session.StartLesson(s.ctx, "zulu-greetings")
	s.Assert().ErrorIs(err, services.ErrLessonNotFound)
	s.Require().NoError(s.session.StartLesson(s.ctx, "afr-greetings"))
}

func (s *SessionServiceSuite) TestToastsAndHaptics() {
	s.login("Thembi", "12345")

	toasts, pulses := s.queue.Drain()
	s.Require().Len(toasts, 1)
	s.Assert().Equal(notify.Success, toasts[0].Level)
	s.Assert().Equal("Account created! Welcome, Thembi! 🎉", toasts[0].Message)
	s.Assert().Equal([]notify.Haptic{notify.Heavy}, pulses)
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}

type panickingNotifier struct{}

func (panickingNotifier) Notify(notify.Level, string) { panic("toast surface gone") }
func (panickingNotifier) Pulse(notify.Haptic)         { panic("no vibrator") }

func TestSideChannelFailuresDoNotBlock(t *testing.T) {
	ctx := context.Background()
	sched := testutil.NewManualScheduler()
	repo := repository.NewAccountRepository(memory.NewKVStore(), "")
	session := services.NewSessionService(catalog.MustDefault(), repo, services.SessionOptions{
		LoginDelay: services.DefaultLoginDelay,
		Scheduler:  sched,
		Notifier:   panickingNotifier{},
		Haptics:    panickingNotifier{},
	})
	defer session.Close()

	require.NoError(t, session.Login(ctx, "Thembi", "12345"))
	sched.Advance(services.DefaultLoginDelay)

	assert.Equal(t, models.ScreenLanguageSelection, session.Snapshot().Screen)
	assert.Contains(t, repo.LoadAll(ctx), "Thembi")
}

func TestSanitizePIN(t *testing.T) {
	tests := map[string]string{
		"12345":     "12345",
		"1-2 3a4b5": "12345",
		"1234567":   "12345",
		"12":        "12",
		"abc":       "",
		"１２３４５":     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, services.SanitizePIN(in), "input %q", in)
	}
}

func TestLoginAndLogoutSideChannels(t *testing.T) {
	ctx := context.Background()
	sched := testutil.NewManualScheduler()
	notifier := new(mocks.MockNotifier)
	notifier.On("Notify", notify.Success, "Account created! Welcome, Thembi! 🎉").Once()
	notifier.On("Pulse", notify.Heavy).Once()
	notifier.On("Notify", notify.Info, "Logged out successfully. See you soon! 👋").Once()
	notifier.On("Pulse", notify.Medium).Once()

	session := services.NewSessionService(catalog.MustDefault(), repository.NewAccountRepository(memory.NewKVStore(), ""), services.SessionOptions{
		LoginDelay: services.DefaultLoginDelay,
		Scheduler:  sched,
		Notifier:   notifier,
		Haptics:    notifier,
	})
	defer session.Close()

	require.NoError(t, session.Login(ctx, "Thembi", "12345"))
	sched.Advance(services.DefaultLoginDelay)
	session.Logout(ctx)

	notifier.AssertExpectations(t)
}
