// README: Session store; the only cross-screen shared mutable state.
package session

import (
	"sync"

	"github.com/TaggTeeM/taggteemflagg/internal/modules/booking"
)

// Store owns the session state. Screens never touch the fields directly;
// Login, Logout, and AddBooking are the entire mutation surface, and none of
// them can fail. Invariant: the user is non-nil iff logged in; the bookings
// list is session-scoped and resets on both login and logout.
type Store struct {
	mu       sync.Mutex
	loggedIn bool
	user     *User
	bookings []booking.Booking
}

func NewStore() *Store {
	return &Store{}
}

// Login replaces the session user and clears any bookings from a previous
// session.
func (s *Store) Login(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.user = &u
	s.bookings = nil
}

// Logout resets every field to its default.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.user = nil
	s.bookings = nil
}

// AddBooking appends to the session's booking list. Append order is the only
// ordering guarantee; there is no deduplication.
func (s *Store) AddBooking(b booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, b)
}

// Current returns a copy of the logged-in user, if any.
func (s *Store) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn || s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsLoggedIn reports whether a user is authenticated.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Bookings returns a copy of the session's booking list in append order.
func (s *Store) Bookings() []booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]booking.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// SetDriverProfile attaches or updates the driver capability on the
// logged-in user. A no-op when nobody is logged in; driver signup redirects
// to login before it ever gets here.
func (s *Store) SetDriverProfile(p DriverProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn || s.user == nil {
		return
	}
	s.user.Driver = &p
}
