package entities

import (
	"fmt"
	"slices"
)

// ApplicationEntity is a named application wrapping an ordered list of account operations.
type ApplicationEntity struct {
	name     string
	accounts []*AccountEntity
}

// NewApplicationEntity creates an application request. At least one account is required.
func NewApplicationEntity(name string, accounts ...*AccountEntity) (*ApplicationEntity, error) {
	if name == "" {
		return nil, ErrEmptyID
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAccounts, name)
	}
	for _, a := range accounts {
		if a == nil {
			return nil, ErrNilAccount
		}
	}
	return &ApplicationEntity{name: name, accounts: slices.Clone(accounts)}, nil
}

// Name returns the application name.
func (a *ApplicationEntity) Name() string { return a.name }

// Size returns the number of accounts.
func (a *ApplicationEntity) Size() int { return len(a.accounts) }

// Get returns the account at index.
func (a *ApplicationEntity) Get(index int) (*AccountEntity, error) {
	if index < 0 || index >= len(a.accounts) {
		return nil, &IndexOutOfRangeError{Index: index, Size: len(a.accounts)}
	}
	return a.accounts[index], nil
}

// Accounts returns the accounts in request order.
func (a *ApplicationEntity) Accounts() []*AccountEntity {
	return slices.Clone(a.accounts)
}

// Equal reports whether both applications carry the same accounts in the same order.
func (a *ApplicationEntity) Equal(other *ApplicationEntity) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.name == other.name && slices.EqualFunc(a.accounts, other.accounts, (*AccountEntity).Equal)
}
