package logger

import (
	"flag"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	debugCalls []string
	infoCalls  []string
	warnCalls  []string
	errorCalls []string
	fatalCalls []string
}

func (m *mockLogger) Debugf(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, fmt.Sprintf(msg, args...))
}

func (m *mockLogger) Infof(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, fmt.Sprintf(msg, args...))
}

func (m *mockLogger) Warnf(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, fmt.Sprintf(msg, args...))
}

func (m *mockLogger) Errorf(msg string, args ...any) {
	m.errorCalls = append(m.errorCalls, fmt.Sprintf(msg, args...))
}

func (m *mockLogger) Fatalf(msg string, args ...any) {
	m.fatalCalls = append(m.fatalCalls, fmt.Sprintf(msg, args...))
}

func TestPackageFunctionsDelegate(t *testing.T) {
	mock := &mockLogger{}
	previous := SetLogger(mock)
	defer SetLogger(previous)

	Debugf("debug %d", 1)
	Infof("setting maximum to %d", 5)
	Warnf("warn %s", "x")
	Errorf("error %v", "y")
	Fatalf("fatal %s", "z")

	assert.Equal(t, []string{"debug 1"}, mock.debugCalls)
	assert.Equal(t, []string{"setting maximum to 5"}, mock.infoCalls)
	assert.Equal(t, []string{"warn x"}, mock.warnCalls)
	assert.Equal(t, []string{"error y"}, mock.errorCalls)
	assert.Equal(t, []string{"fatal z"}, mock.fatalCalls)
}

func TestSetLoggerReturnsPrevious(t *testing.T) {
	first := &mockLogger{}
	second := &mockLogger{}

	original := SetLogger(first)
	defer SetLogger(original)

	assert.Same(t, first, SetLogger(second))
	assert.Same(t, second, SetLogger(first))
}

func TestNewGlogLogger(t *testing.T) {
	flag.Set("logtostderr", "true")

	logger := NewGlogLogger()

	glogLogger, ok := logger.(*GlogLogger)
	assert.True(t, ok, "Logger should be of type *GlogLogger")
	assert.Equal(t, 2, glogLogger.depth)
	assert.NotPanics(t, func() {
		logger.Debugf("debug message")
		logger.Infof("info message %d", 1)
		logger.Warnf("warn message")
		logger.Errorf("error message")
	})
}
