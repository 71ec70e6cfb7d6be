package models

// Screen identifies the single view the router shows.
type Screen string

const (
	ScreenSplash            Screen = "splash"
	ScreenOnboarding        Screen = "onboarding"
	ScreenLogin             Screen = "login"
	ScreenLanguageSelection Screen = "language-selection"
	ScreenLessonList        Screen = "lesson-list"
	ScreenLesson            Screen = "lesson"
	ScreenWallet            Screen = "wallet"
	ScreenLeaderboard       Screen = "leaderboard"
	ScreenProfile           Screen = "profile"
	ScreenSettings          Screen = "settings"
)

// Authenticated reports whether the screen needs an active account.
func (s Screen) Authenticated() bool {
	switch s {
	case ScreenLanguageSelection, ScreenLessonList, ScreenLesson,
		ScreenWallet, ScreenLeaderboard, ScreenProfile, ScreenSettings:
		return true
	}
	return false
}

// Navigable reports whether the screen can be reached by plain navigation.
// The lesson screen is only entered by starting a lesson.
func (s Screen) Navigable() bool {
	return s.Authenticated() && s != ScreenLesson
}
