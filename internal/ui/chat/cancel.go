// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// CANCEL FUNCTION MANAGEMENT
// =============================================================================

// cancelManager guards the cancel function for the in-flight exchange. It is
// touched from both the Update loop and the streaming goroutine, and must be
// held as a pointer in the Model so Bubble Tea's value copies share it.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// set stores the cancel function for a newly started exchange.
func (cm *cancelManager) set(fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cancelFunc = fn
}

// cancel invokes and clears the stored cancel function. Safe to call
// repeatedly or while idle; reports whether anything was cancelled.
func (cm *cancelManager) cancel() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc == nil {
		return false
	}
	cm.cancelFunc()
	cm.cancelFunc = nil
	return true
}

// active reports whether an exchange is cancellable right now.
func (cm *cancelManager) active() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.cancelFunc != nil
}

// =============================================================================
// PROGRAM SENDER
// =============================================================================

// msgSender shares the tea.Program Send function across model copies. It is
// wired after the program is constructed, so streaming goroutines read it
// through a mutex rather than a captured field.
type msgSender struct {
	mu sync.Mutex
	fn func(msg tea.Msg)
}

func (s *msgSender) set(fn func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

// send forwards msg into the program loop, dropping it when unwired.
func (s *msgSender) send(msg tea.Msg) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}
