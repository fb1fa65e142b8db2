package storage

import "github.com/andyleap/mockapi/internal/models"

// Accounts answers authentication lookups against the live users collection.
type Accounts struct {
	users *Collection
}

func NewAccounts(users *Collection) *Accounts {
	return &Accounts{users: users}
}

func (a *Accounts) find(match func(models.Account) bool) (models.Account, bool) {
	var found models.Account
	_, ok := a.users.Find(func(r models.Record) bool {
		acct := models.AccountFromRecord(r)
		if match(acct) {
			found = acct
			return true
		}
		return false
	})
	return found, ok
}

// ActiveByUsername finds an active account by exact username.
func (a *Accounts) ActiveByUsername(username string) (models.Account, bool) {
	if username == "" {
		return models.Account{}, false
	}
	return a.find(func(acct models.Account) bool {
		return acct.Active && acct.Username == username
	})
}

// ActiveByAPIKey finds an active account by exact API key.
func (a *Accounts) ActiveByAPIKey(key string) (models.Account, bool) {
	if key == "" {
		return models.Account{}, false
	}
	return a.find(func(acct models.Account) bool {
		return acct.Active && acct.APIKey == key
	})
}

// ByID finds an account regardless of its active flag.
func (a *Accounts) ByID(id string) (models.Account, bool) {
	return a.find(func(acct models.Account) bool {
		return acct.ID == id
	})
}
