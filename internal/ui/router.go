package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/fcm/internal/session"
	"github.com/tgienger/fcm/internal/ui/views"
)

// Route is a screen plus the params it was opened with
type Route struct {
	Screen views.Screen
	Params views.Params
}

type entry struct {
	route Route
	model tea.Model
}

// Router is the navigation stack. Screens below the top keep their state
// so going back returns to them as they were left.
type Router struct {
	stack []entry
}

// Allowed reports whether screen is reachable in the given session status
func Allowed(status session.Status, screen views.Screen) bool {
	switch status {
	case session.StatusSignedIn:
		return screen == views.ScreenHome || screen == views.ScreenCardForm || screen == views.ScreenProfile
	case session.StatusSignedOut:
		return screen == views.ScreenSignIn || screen == views.ScreenSignUp
	default:
		return false
	}
}

// Root returns the first screen of the set reachable in status
func Root(status session.Status) (views.Screen, bool) {
	switch status {
	case session.StatusSignedIn:
		return views.ScreenHome, true
	case session.StatusSignedOut:
		return views.ScreenSignIn, true
	default:
		return 0, false
	}
}

// Reset replaces the whole stack with a single screen
func (r *Router) Reset(route Route, m tea.Model) {
	r.stack = []entry{{route: route, model: m}}
}

// Clear empties the stack
func (r *Router) Clear() {
	r.stack = nil
}

// Push opens a screen on top of the current one
func (r *Router) Push(route Route, m tea.Model) {
	r.stack = append(r.stack, entry{route: route, model: m})
}

// Index returns the stack position of screen, or -1
func (r *Router) Index(screen views.Screen) int {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].route.Screen == screen {
			return i
		}
	}
	return -1
}

// PopTo drops every screen above position i
func (r *Router) PopTo(i int) {
	if i >= 0 && i < len(r.stack) {
		r.stack = r.stack[:i+1]
	}
}

// Pop returns to the previous screen. The last screen is never popped.
func (r *Router) Pop() bool {
	if len(r.stack) <= 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// Current returns the top of the stack
func (r *Router) Current() (Route, tea.Model, bool) {
	if len(r.stack) == 0 {
		return Route{}, nil, false
	}
	top := r.stack[len(r.stack)-1]
	return top.route, top.model, true
}

// SetCurrent replaces the model on top of the stack
func (r *Router) SetCurrent(m tea.Model) {
	if len(r.stack) > 0 {
		r.stack[len(r.stack)-1].model = m
	}
}

// Depth returns the number of screens on the stack
func (r *Router) Depth() int {
	return len(r.stack)
}
