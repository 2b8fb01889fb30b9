package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user, allocated by the store.
	ID int64 `json:"id"`

	// Username is the unique login name. Never empty.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the password. It is produced and
	// verified only by the auth package; everything else treats it as opaque.
	PasswordHash string `json:"password_hash"`

	// Token is the current session token. Empty until the first login.
	// A new login overwrites it, invalidating the previous session.
	Token string `json:"token"`
}

// Public returns a copy safe to expose to API callers: credential fields
// stripped, identity fields kept.
func (u *User) Public() map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
	}
}
