// Package quiz runs one pass through a lesson's questions.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vytor/learnearn/internal/models"
)

var (
	ErrNoQuestions     = errors.New("lesson has no questions")
	ErrAwaitingAdvance = errors.New("answer already given for this question")
	ErrInvalidOption   = errors.New("option out of range")
	ErrNotAnswered     = errors.New("question not answered yet")
	ErrComplete        = errors.New("lesson already complete")
)

type State int

const (
	Presenting State = iota
	Feedback
	Complete
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case Feedback:
		return "feedback"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "presenting":
		*s = Presenting
	case "feedback":
		*s = Feedback
	case "complete":
		*s = Complete
	default:
		return fmt.Errorf("unknown quiz state %q", text)
	}
	return nil
}

// Result describes the answer just given.
type Result struct {
	Correct bool
	Reward  float64
	// Last is true when no questions remain after this one.
	Last bool
}

// Session walks presenting(i) -> feedback -> presenting(i+1) | complete.
// It is not safe for concurrent use; the owning controller serialises access.
type Session struct {
	lesson   models.Lesson
	index    int
	selected int
	correct  bool
	earned   float64
	state    State
}

func New(lesson models.Lesson) (*Session, error) {
	if len(lesson.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{lesson: lesson, selected: -1}, nil
}

// Answer records the selected option for the current question.
func (s *Session) Answer(option int) (Result, error) {
	switch s.state {
	case Feedback:
		return Result{}, ErrAwaitingAdvance
	case Complete:
		return Result{}, ErrComplete
	}
	q := s.lesson.Questions[s.index]
	if option < 0 || option >= len(q.Options) {
		return Result{}, ErrInvalidOption
	}

	s.selected = option
	s.correct = option == q.Correct
	s.state = Feedback

	res := Result{Correct: s.correct, Last: s.index == len(s.lesson.Questions)-1}
	if s.correct {
		s.earned += q.Reward
		res.Reward = q.Reward
	}
	return res, nil
}

// Advance leaves the feedback state. On the last question it completes the
// session and returns done=true with the accumulated total; that happens
// once, later calls return ErrComplete.
func (s *Session) Advance() (total float64, done bool, err error) {
	switch s.state {
	case Presenting:
		return 0, false, ErrNotAnswered
	case Complete:
		return 0, false, ErrComplete
	}
	if s.index == len(s.lesson.Questions)-1 {
		s.state = Complete
		return s.earned, true, nil
	}
	s.index++
	s.selected = -1
	s.correct = false
	s.state = Presenting
	return 0, false, nil
}

func (s *Session) Lesson() models.Lesson { return s.lesson }
func (s *Session) State() State          { return s.state }
func (s *Session) Earned() float64       { return s.earned }

// Question returns the question on screen and its zero-based index.
func (s *Session) Question() (models.Question, int) {
	return s.lesson.Questions[s.index], s.index
}

// Selected is the chosen option while feedback shows, or -1.
func (s *Session) Selected() int { return s.selected }

func (s *Session) LastCorrect() bool { return s.correct }

// Progress is the header bar fill, (i+1)/n as a percentage.
func (s *Session) Progress() float64 {
	return float64(s.index+1) / float64(len(s.lesson.Questions)) * 100
}

// View is a copy of the session suitable for rendering.
type View struct {
	Lesson   models.Lesson   `json:"lesson"`
	Question models.Question `json:"question"`
	Index    int             `json:"index"`
	Total    int             `json:"total"`
	Selected int             `json:"selected"`
	Correct  bool            `json:"correct"`
	Earned   float64         `json:"earned"`
	State    State           `json:"state"`
	Progress float64         `json:"progress"`
}

func (s *Session) View() View {
	q, i := s.Question()
	return View{
		Lesson:   s.lesson,
		Question: q,
		Index:    i,
		Total:    len(s.lesson.Questions),
		Selected: s.selected,
		Correct:  s.correct,
		Earned:   s.earned,
		State:    s.state,
		Progress: s.Progress(),
	}
}

type lessonJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Reward      float64 `json:"reward"`
}

type questionJSON struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct *int     `json:"correct,omitempty"`
	Reward  float64  `json:"reward"`
}

// MarshalJSON leaves out the lesson's questions, and the correct option is
// only included once feedback shows.
func (v View) MarshalJSON() ([]byte, error) {
	q := questionJSON{
		Prompt:  v.Question.Prompt,
		Options: v.Question.Options,
		Reward:  v.Question.Reward,
	}
	if v.ShowFeedback() {
		correct := v.Question.Correct
		q.Correct = &correct
	}
	return json.Marshal(struct {
		Lesson   lessonJSON   `json:"lesson"`
		Question questionJSON `json:"question"`
		Index    int          `json:"index"`
		Total    int          `json:"total"`
		Selected int          `json:"selected"`
		Correct  bool         `json:"correct"`
		Earned   float64      `json:"earned"`
		State    State        `json:"state"`
		Progress float64      `json:"progress"`
	}{
		Lesson: lessonJSON{
			ID:          v.Lesson.ID,
			Title:       v.Lesson.Title,
			Description: v.Lesson.Description,
			Reward:      v.Lesson.Reward,
		},
		Question: q,
		Index:    v.Index,
		Total:    v.Total,
		Selected: v.Selected,
		Correct:  v.Correct,
		Earned:   v.Earned,
		State:    v.State,
		Progress: v.Progress,
	})
}

func (v View) ShowFeedback() bool { return v.State == Feedback || v.State == Complete }
func (v View) Done() bool         { return v.State == Complete }
