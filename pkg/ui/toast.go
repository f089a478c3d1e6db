package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastKind picks a toast's icon and colour.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
	ToastWarning
)

// Icon returns the glyph shown before the message.
func (k ToastKind) Icon() string {
	switch k {
	case ToastSuccess:
		return "✓"
	case ToastError:
		return "✗"
	case ToastWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Toast is a short-lived notification.
type Toast struct {
	Kind    ToastKind
	Message string
	Expires time.Time
}

// maxToasts is how many toasts are stacked before the oldest is dropped.
const maxToasts = 3

type toastStack struct {
	items []Toast
}

func (s *toastStack) push(t Toast) {
	s.items = append(s.items, t)
	if over := len(s.items) - maxToasts; over > 0 {
		s.items = s.items[over:]
	}
}

// expire drops toasts whose time is up and reports whether any remain.
func (s *toastStack) expire(now time.Time) bool {
	kept := s.items[:0]
	for _, t := range s.items {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	s.items = kept
	return len(s.items) > 0
}

func (s *toastStack) len() int {
	return len(s.items)
}

// toastTickMsg asks the model to drop expired toasts.
type toastTickMsg struct{}

func toastTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}
