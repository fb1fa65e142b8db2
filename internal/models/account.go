package models

// Account is the typed view of a user record that authentication needs.
type Account struct {
	ID       string
	Username string
	Email    string
	Role     string
	Password string
	APIKey   string
	Active   bool
}

// AccountFromRecord extracts an Account from a user record. Missing or
// mistyped fields are left at their zero value.
func AccountFromRecord(r Record) Account {
	str := func(k string) string {
		s, _ := r[k].(string)
		return s
	}
	active, _ := r["active"].(bool)
	return Account{
		ID:       r.ID(),
		Username: str("username"),
		Email:    str("email"),
		Role:     str("role"),
		Password: str("password"),
		APIKey:   str("apiKey"),
		Active:   active,
	}
}

// SensitiveUserFields are stripped before a user record leaves the service.
var SensitiveUserFields = []string{"password", "apiKey"}

// demoPasswords are plaintext passwords accepted for the seeded accounts.
var demoPasswords = map[string]string{
	"admin":   "admin123",
	"user":    "user123",
	"jsmith":  "jsmith123",
	"mbrown":  "mbrown123",
	"swilson": "swilson123",
}

// MatchesDemoPassword reports whether password is the demo password for the
// account's username.
func (a Account) MatchesDemoPassword(password string) bool {
	want, ok := demoPasswords[a.Username]
	return ok && password != "" && want == password
}
