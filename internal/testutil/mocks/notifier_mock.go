package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/learnearn/internal/notify"
)

// MockNotifier implements services.Notifier and services.Haptics
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(level notify.Level, message string) {
	m.Called(level, message)
}

func (m *MockNotifier) Pulse(h notify.Haptic) {
	m.Called(h)
}
