// Package notify buffers toasts and haptic pulses until the next page render.
package notify

import "sync"

type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
)

type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Haptic string

const (
	Light  Haptic = "light"
	Medium Haptic = "medium"
	Heavy  Haptic = "heavy"
)

// Millis is the vibration length for navigator.vibrate.
func (h Haptic) Millis() int {
	switch h {
	case Medium:
		return 20
	case Heavy:
		return 30
	default:
		return 10
	}
}

// maxPending bounds each queue if nothing drains it.
const maxPending = 20

// Queue collects notifications. The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	pulses []Haptic
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Notify(level Level, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = appendBounded(q.toasts, Toast{Level: level, Message: message})
}

func (q *Queue) Pulse(h Haptic) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pulses = appendBounded(q.pulses, h)
}

// Drain returns and clears everything queued so far.
func (q *Queue) Drain() ([]Toast, []Haptic) {
	q.mu.Lock()
	defer q.mu.Unlock()
	toasts, pulses := q.toasts, q.pulses
	q.toasts, q.pulses = nil, nil
	return toasts, pulses
}

func appendBounded[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > maxPending {
		s = s[len(s)-maxPending:]
	}
	return s
}
