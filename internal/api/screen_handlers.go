package api

import (
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/quiz"
	"github.com/vytor/learnearn/internal/services"
	"github.com/vytor/learnearn/internal/wallet"
)

type onboardingSlide struct {
	Icon        string
	Title       string
	Description string
}

var onboardingSlides = []onboardingSlide{
	{Icon: "🌍", Title: "Learn isiZulu, Afrikaans, and more", Description: "Master South African languages with fun, bite-sized lessons designed for everyone."},
	{Icon: "🧠", Title: "Complete lessons and quizzes", Description: "Test your knowledge with interactive quizzes and track your progress."},
	{Icon: "💰", Title: "Earn CELO tokens with MiniPay", Description: "Get rewarded with real crypto tokens for every lesson you complete."},
}

type navItem struct {
	Icon   string
	Label  string
	Screen models.Screen
}

var bottomNav = []navItem{
	{Icon: "🏠", Label: "Home", Screen: models.ScreenLanguageSelection},
	{Icon: "🏆", Label: "Leaderboard", Screen: models.ScreenLeaderboard},
	{Icon: "👛", Label: "Wallet", Screen: models.ScreenWallet},
	{Icon: "👤", Label: "Profile", Screen: models.ScreenProfile},
}

var walletActions = []string{"deposit", "withdraw", "send"}

type languageCard struct {
	models.Language
	Total     int
	Completed int
	Selected  bool
}

type lessonCard struct {
	models.Lesson
	Completed bool
}

// handleScreen is the screen router: one page per session screen.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	snap := s.Session.Snapshot()
	log := logger.FromContext(r.Context())
	log.Debug("rendering screen %s", snap.Screen)

	data := pageData{"snap": snap, "nav": bottomNav}
	if snap.Account != nil {
		data["account"] = snap.Account
	} else if snap.Screen.Authenticated() {
		log.Warn("screen %s without an account, showing login", snap.Screen)
		snap.Screen = models.ScreenLogin
	}

	switch snap.Screen {
	case models.ScreenSplash:
		data["refresh"] = refreshSeconds(s.SplashDelay)
		s.render(w, r, "splash", data)
	case models.ScreenOnboarding:
		s.renderOnboarding(w, r, data)
	case models.ScreenLogin:
		s.renderLogin(w, r, snap, data)
	case models.ScreenLanguageSelection:
		data["languages"] = s.languageCards(*snap.Account)
		s.render(w, r, "language_selection", data)
	case models.ScreenLessonList:
		s.renderLessonList(w, r, *snap.Account, data)
	case models.ScreenLesson:
		if snap.Lesson == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		data["lesson"] = snap.Lesson
		if snap.Lesson.State == quiz.Feedback {
			data["refresh"] = refreshSeconds(s.FeedbackDelay)
		}
		s.render(w, r, "lesson", data)
	case models.ScreenWallet:
		data["actions"] = walletActions
		s.render(w, r, "wallet", data)
	case models.ScreenLeaderboard:
		data["achievements"] = wallet.Achievements(*snap.Account)
		data["unlocked"] = len(wallet.UnlockedAchievements(*snap.Account))
		data["goals"] = wallet.NextGoals(*snap.Account)
		s.render(w, r, "leaderboard", data)
	case models.ScreenProfile:
		data["avatars"] = services.AvatarOptions
		data["editing"] = r.URL.Query().Get("edit") != ""
		s.render(w, r, "profile", data)
	case models.ScreenSettings:
		data["goals"] = services.DailyGoalOptions
		s.render(w, r, "settings", data)
	default:
		log.Error("no view for screen %q", snap.Screen)
		http.Error(w, "unknown screen", http.StatusInternalServerError)
	}
}

func (s *Server) renderOnboarding(w http.ResponseWriter, r *http.Request, data pageData) {
	slide, err := strconv.Atoi(r.URL.Query().Get("slide"))
	if err != nil || slide < 0 || slide >= len(onboardingSlides) {
		slide = 0
	}
	data["slide"] = onboardingSlides[slide]
	data["slideIndex"] = slide
	data["slideCount"] = len(onboardingSlides)
	data["lastSlide"] = slide == len(onboardingSlides)-1
	s.render(w, r, "onboarding", data)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, snap services.Snapshot, data pageData) {
	q := r.URL.Query()
	username := q.Get("username")
	data["username"] = username
	data["returning"] = s.Session.LookupUser(r.Context(), username)
	data["loginError"] = q.Get("login_error")
	data["pinLength"] = services.PINLength
	if snap.LoggingIn {
		data["refresh"] = refreshSeconds(s.LoginDelay)
	}
	s.render(w, r, "login", data)
}

func (s *Server) renderLessonList(w http.ResponseWriter, r *http.Request, acc models.Account, data pageData) {
	lessons := s.Catalog.Lessons(acc.SelectedLanguage)
	done := acc.CompletedFor(acc.SelectedLanguage)
	cards := lo.Map(lessons, func(l models.Lesson, _ int) lessonCard {
		return lessonCard{Lesson: l, Completed: lo.Contains(done, l.ID)}
	})
	completed := lo.CountBy(cards, func(c lessonCard) bool { return c.Completed })

	var progress float64
	if len(cards) > 0 {
		progress = float64(completed) / float64(len(cards)) * 100
	}
	data["language"] = acc.SelectedLanguage
	data["lessons"] = cards
	data["completed"] = completed
	data["progress"] = progress
	s.render(w, r, "lesson_list", data)
}

func (s *Server) languageCards(acc models.Account) []languageCard {
	return lo.Map(s.Catalog.Languages(), func(l models.Language, _ int) languageCard {
		done := acc.CompletedFor(l.Name)
		return languageCard{
			Language: l,
			Total:    len(l.Lessons),
			Completed: lo.CountBy(l.Lessons, func(lesson models.Lesson) bool {
				return lo.Contains(done, lesson.ID)
			}),
			Selected: l.Name == acc.SelectedLanguage,
		}
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Session.Snapshot())
}

// handleAccounts lists stored account summaries, PINs excluded.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Accounts.ListAccounts(r.Context()))
}
