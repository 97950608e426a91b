// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify carries user-facing side effects out of the client core.

Two seams exist:

  - [Notifier]: transient, toast-style messages at four levels.
  - [Navigator]: the "go back to the login screen" action forced by logout
    or by an authorization failure.

The core never decides how these are rendered. The CLI prints them to
stderr; tests record them.
*/
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// # Levels

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// # Contracts

// Notifier surfaces a short message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// Navigator moves the user to the login screen.
type Navigator interface {
	ToLogin(reason string)
}

// Success, Info, Warn and Error are shorthands over [Notifier.Notify].
func Success(notifier Notifier, message string) { notifier.Notify(LevelSuccess, message) }
func Info(notifier Notifier, message string)    { notifier.Notify(LevelInfo, message) }
func Warn(notifier Notifier, message string)    { notifier.Notify(LevelWarn, message) }
func Error(notifier Notifier, message string)   { notifier.Notify(LevelError, message) }

// # Terminal Implementation

// Terminal writes notifications to a stream and mirrors them to slog.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

// NewTerminal creates a terminal notifier writing to out.
func NewTerminal(out io.Writer, logger *slog.Logger) *Terminal {
	return &Terminal{out: out, logger: logger}
}

// Notify implements [Notifier].
func (terminal *Terminal) Notify(level Level, message string) {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()

	_, _ = fmt.Fprintf(terminal.out, "%s %s\n", symbol(level), message)
	terminal.logger.Debug("notification_shown", slog.String("level", string(level)), slog.String("message", message))
}

// ToLogin implements [Navigator].
func (terminal *Terminal) ToLogin(reason string) {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()

	_, _ = fmt.Fprintln(terminal.out, "→ Run `expensa login` to sign in again.")
	terminal.logger.Info("navigate_to_login", slog.String("reason", reason))
}

func symbol(level Level) string {
	switch level {
	case LevelSuccess:
		return "✔"
	case LevelWarn:
		return "!"
	case LevelError:
		return "✖"
	default:
		return "i"
	}
}

// # Recording Implementation

// Event is one recorded notification.
type Event struct {
	Level   Level
	Message string
}

// Recorder keeps every notification and navigation in memory.
// It satisfies both [Notifier] and [Navigator].
type Recorder struct {
	mu          sync.Mutex
	events      []Event
	navigations []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify implements [Notifier].
func (recorder *Recorder) Notify(level Level, message string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.events = append(recorder.events, Event{Level: level, Message: message})
}

// ToLogin implements [Navigator].
func (recorder *Recorder) ToLogin(reason string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.navigations = append(recorder.navigations, reason)
}

// Events returns a copy of the recorded notifications.
func (recorder *Recorder) Events() []Event {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]Event(nil), recorder.events...)
}

// Messages returns the recorded messages for one level.
func (recorder *Recorder) Messages(level Level) []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	var messages []string
	for _, event := range recorder.events {
		if event.Level == level {
			messages = append(messages, event.Message)
		}
	}
	return messages
}

// Navigations returns the reasons passed to [Recorder.ToLogin].
func (recorder *Recorder) Navigations() []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]string(nil), recorder.navigations...)
}

// Reset forgets everything recorded so far.
func (recorder *Recorder) Reset() {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.events = nil
	recorder.navigations = nil
}
