package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/learnearn/internal/catalog"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/notify"
	"github.com/vytor/learnearn/internal/quiz"
	"github.com/vytor/learnearn/internal/repository"
)

// SessionService owns the one active session of the process: the screen
// being shown, the logged-in account, the running quiz and pending timers.
// Every account change is written back through the AccountRepository before
// the call returns.
type SessionService interface {
	Start(ctx context.Context)
	CompleteOnboarding(ctx context.Context) error

	Login(ctx context.Context, username, pin string) error
	LookupUser(ctx context.Context, username string) bool
	Logout(ctx context.Context)

	SelectLanguage(ctx context.Context, language string) error
	Navigate(ctx context.Context, screen models.Screen) error

	StartLesson(ctx context.Context, lessonID string) error
	Answer(ctx context.Context, option int) (quiz.Result, error)
	FinishLesson(ctx context.Context, viewWallet bool) error
	LeaveLesson(ctx context.Context) error

	Deposit(ctx context.Context, amount string) (models.Transaction, error)
	Withdraw(ctx context.Context, amount string) (models.Transaction, error)
	Send(ctx context.Context, amount string) (models.Transaction, error)
	ClaimDailyReward(ctx context.Context) (models.Transaction, error)

	UpdateProfile(ctx context.Context, username, avatar string) error
	UpdateSettings(ctx context.Context, soundEnabled bool, dailyGoal int) error

	Snapshot() Snapshot
	// Close cancels pending timers.
	Close()
}

// Notifier shows transient messages. Best effort.
type Notifier interface {
	Notify(level notify.Level, message string)
}

// Haptics triggers a vibration. Best effort.
type Haptics interface {
	Pulse(h notify.Haptic)
}

const (
	DefaultSplashDelay   = 2500 * time.Millisecond
	DefaultFeedbackDelay = 2 * time.Second
	DefaultLoginDelay    = 500 * time.Millisecond
)

type SessionOptions struct {
	SplashDelay   time.Duration
	FeedbackDelay time.Duration
	LoginDelay    time.Duration

	Scheduler Scheduler
	Clock     func() time.Time
	Notifier  Notifier
	Haptics   Haptics
	Logger    *logger.Logger
}

// DailyRewardPrompt is the claimable login bonus offered after login.
type DailyRewardPrompt struct {
	Amount float64 `json:"amount"`
	Streak int     `json:"streak"`
}

// Snapshot is a copy of the session state. The account never carries the PIN.
type Snapshot struct {
	Screen      models.Screen      `json:"screen"`
	Account     *models.Account    `json:"account,omitempty"`
	Lesson      *quiz.View         `json:"lesson,omitempty"`
	DailyReward *DailyRewardPrompt `json:"dailyReward,omitempty"`
	LoggingIn   bool               `json:"loggingIn"`
}

func (s Snapshot) LoggedIn() bool { return s.Account != nil }

type pendingLogin struct {
	username string
	pin      string
	existing *models.Account
}

type sessionService struct {
	catalog *catalog.Catalog
	repo    repository.AccountRepository
	opts    SessionOptions
	log     *logger.Logger

	mu             sync.Mutex
	screen         models.Screen
	account        *models.Account
	lesson         *quiz.Session
	lessonLanguage string
	dailyReward    *DailyRewardPrompt
	login          *pendingLogin

	// generation invalidates every timer scheduled before it was bumped.
	generation uint64
	timers     []Timer
}

// NewSessionService builds a controller on the login screen. Call Start to
// run the splash sequence.
func NewSessionService(c *catalog.Catalog, repo repository.AccountRepository, opts SessionOptions) SessionService {
	if opts.Scheduler == nil {
		opts.Scheduler = NewScheduler()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	return &sessionService{
		catalog: c,
		repo:    repo,
		opts:    opts,
		log:     opts.Logger.WithPrefix("session"),
		screen:  models.ScreenLogin,
	}
}

func (s *sessionService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.FromContext(ctx).WithPrefix("session").Debug("starting at splash, delay=%s", s.opts.SplashDelay)
	s.resetLocked()
	s.screen = models.ScreenSplash
	s.scheduleLocked(s.opts.SplashDelay, func(context.Context) {
		if s.screen == models.ScreenSplash {
			s.screen = models.ScreenOnboarding
		}
	})
}

func (s *sessionService) CompleteOnboarding(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != models.ScreenSplash && s.screen != models.ScreenOnboarding {
		return invalidTransition("Onboarding")
	}
	s.cancelTimersLocked()
	s.screen = models.ScreenLogin
	return nil
}

func (s *sessionService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Screen: s.screen, LoggingIn: s.login != nil}
	if s.account != nil {
		acc := s.account.Clone()
		acc.Password = ""
		snap.Account = &acc
	}
	if s.lesson != nil {
		v := s.lesson.View()
		snap.Lesson = &v
	}
	if s.dailyReward != nil {
		p := *s.dailyReward
		snap.DailyReward = &p
	}
	return snap
}

func (s *sessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimersLocked()
}

// resetLocked drops all in-memory session state. Nothing persisted is touched.
func (s *sessionService) resetLocked() {
	s.cancelTimersLocked()
	s.account = nil
	s.lesson = nil
	s.lessonLanguage = ""
	s.dailyReward = nil
	s.login = nil
}

// scheduleLocked runs fn under the lock after d unless the generation moved
// on in the meantime.
func (s *sessionService) scheduleLocked(d time.Duration, fn func(ctx context.Context)) {
	gen := s.generation
	t := s.opts.Scheduler.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			s.log.Debug("dropping stale timer: generation %d, now %d", gen, s.generation)
			return
		}
		fn(logger.NewContext(context.Background(), s.log))
	})
	s.timers = append(s.timers, t)
}

func (s *sessionService) cancelTimersLocked() {
	s.generation++
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

func (s *sessionService) now() time.Time {
	return s.opts.Clock().UTC()
}

// saveLocked writes the active account into the stored map.
func (s *sessionService) saveLocked(ctx context.Context) {
	if s.account == nil {
		return
	}
	accounts := s.repo.LoadAll(ctx)
	accounts[s.account.Username] = s.account.Clone()
	s.repo.SaveAll(ctx, accounts)
}

func (s *sessionService) requireAccountLocked() error {
	if s.account == nil {
		return notLoggedIn()
	}
	return nil
}

func (s *sessionService) toast(level notify.Level, message string) {
	if s.opts.Notifier == nil {
		return
	}
	defer s.recoverSideChannel("notifier")
	s.opts.Notifier.Notify(level, message)
}

func (s *sessionService) pulse(h notify.Haptic) {
	if s.opts.Haptics == nil {
		return
	}
	defer s.recoverSideChannel("haptics")
	s.opts.Haptics.Pulse(h)
}

func (s *sessionService) recoverSideChannel(name string) {
	if r := recover(); r != nil {
		s.log.Warn("%s failed: %v", name, r)
	}
}
