package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// Languages offered by the app, in display order.
const (
	LanguageZulu      = "isiZulu"
	LanguageAfrikaans = "Afrikaans"
	LanguageSesotho   = "Sesotho"
	LanguageXhosa     = "isiXhosa"

	DefaultLanguage = LanguageZulu
)

var SupportedLanguages = []string{LanguageZulu, LanguageAfrikaans, LanguageSesotho, LanguageXhosa}

const (
	DefaultDailyGoal = 3
	DefaultAvatar    = "👤"
)

// Account is the persisted per-user record. JSON names follow the layout
// the app has always stored under its storage key.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`

	XP               int                 `json:"xp"`
	Streak           int                 `json:"streak"`
	LessonsCompleted int                 `json:"lessonsCompleted"`
	SelectedLanguage string              `json:"selectedLanguage"`
	CompletedLessons map[string][]string `json:"completedLessons"`

	CeloBalance  float64       `json:"celoBalance"`
	TotalRewards float64       `json:"totalRewards"`
	Transactions []Transaction `json:"transactions"`

	SoundEnabled    bool       `json:"soundEnabled"`
	DailyGoal       int        `json:"dailyGoal"`
	DailyProgress   int        `json:"dailyProgress"`
	LastLogin       time.Time  `json:"lastLogin"`
	LastDailyReward *time.Time `json:"lastDailyReward,omitempty"`
}

// UnmarshalJSON accepts an empty string for lastDailyReward, which older
// records use for "never claimed".
func (a *Account) UnmarshalJSON(data []byte) error {
	type plain Account
	aux := struct {
		*plain
		LastDailyReward json.RawMessage `json:"lastDailyReward"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	a.LastDailyReward = nil
	switch string(aux.LastDailyReward) {
	case "", "null", `""`:
		return nil
	}
	var claimed time.Time
	if err := json.Unmarshal(aux.LastDailyReward, &claimed); err != nil {
		return err
	}
	a.LastDailyReward = &claimed
	return nil
}

// NewAccount returns the default record for a freshly registered user.
func NewAccount(username, pin string, now time.Time) Account {
	completed := make(map[string][]string, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		completed[lang] = []string{}
	}
	return Account{
		Username:         username,
		Password:         pin,
		Avatar:           InitialAvatar(username),
		SelectedLanguage: DefaultLanguage,
		CompletedLessons: completed,
		Transactions:     []Transaction{},
		SoundEnabled:     true,
		DailyGoal:        DefaultDailyGoal,
		LastLogin:        now,
	}
}

// InitialAvatar is the upper-cased first letter of the username.
func InitialAvatar(username string) string {
	r, _ := utf8.DecodeRuneInString(username)
	if r == utf8.RuneError {
		return DefaultAvatar
	}
	return strings.ToUpper(string(r))
}

// Clone returns a deep copy so callers can mutate the result freely.
func (a Account) Clone() Account {
	out := a
	if a.CompletedLessons != nil {
		out.CompletedLessons = make(map[string][]string, len(a.CompletedLessons))
		for lang, ids := range a.CompletedLessons {
			out.CompletedLessons[lang] = append([]string{}, ids...)
		}
	}
	if a.Transactions != nil {
		out.Transactions = append([]Transaction{}, a.Transactions...)
	}
	if a.LastDailyReward != nil {
		t := *a.LastDailyReward
		out.LastDailyReward = &t
	}
	return out
}

// CompletedFor returns the completed lesson ids for a language.
func (a Account) CompletedFor(language string) []string {
	return a.CompletedLessons[language]
}
