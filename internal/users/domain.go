package users

import "time"

// User represents a user account. Password holds the bcrypt hash and is never
// serialized. Accounts start disabled until the account verification URL is
// redeemed; NonLocked and Enabled both gate authentication.
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone,omitempty"`
	Enabled   bool      `json:"enabled"`
	NonLocked bool      `json:"notLocked"`
	UsingMFA  bool      `json:"usingMfa"`
	CreatedAt time.Time `json:"createdAt"`
}
