// Package session tracks whether the dashboard user is logged in. The flag
// lives in memory only; there are no credentials behind it.
package session

import (
	"sync"
	"time"
)

// Landing targets.
const (
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
)

// Flag is a goroutine-safe logged-in marker.
type Flag struct {
	mu       sync.RWMutex
	loggedIn bool
	since    time.Time
	now      func() time.Time
}

// New returns a logged-out flag.
func New() *Flag {
	return &Flag{now: time.Now}
}

// LogIn marks the session as logged in. Logging in twice keeps the first
// timestamp.
func (f *Flag) LogIn() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loggedIn {
		return
	}
	f.loggedIn = true
	f.since = f.clock()().UTC()
}

// LogOut clears the flag.
func (f *Flag) LogOut() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	f.since = time.Time{}
}

// LoggedIn reports the current state.
func (f *Flag) LoggedIn() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loggedIn
}

// Since returns when the current login started, or the zero time.
func (f *Flag) Since() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.since
}

// Landing returns the path the landing page redirects to.
func (f *Flag) Landing() string {
	if f.LoggedIn() {
		return DashboardPath
	}
	return LoginPath
}

func (f *Flag) clock() func() time.Time {
	if f.now == nil {
		return time.Now
	}
	return f.now
}
