// README: Authenticated user profile and driver capability.
package session

import "github.com/TaggTeeM/taggteemflagg/internal/types"

// DriverProfile is the optional driver capability on a user; its presence
// decides which driving screens are reachable.
type DriverProfile struct {
	Online   bool
	Approved bool
}

type User struct {
	ID        types.ID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Driver    *DriverProfile
}
