package ports

import "github.com/reglet-dev/provisioning-sdk/domain/entities"

// RequestParser turns raw request bytes into the provisioning model.
// Implementations reject malformed input wholesale and never return a partial entity.
type RequestParser interface {
	// ParseApplication parses an application-wrapped request.
	ParseApplication(data []byte) (*entities.ApplicationEntity, error)

	// ParseAccount parses a standalone account request.
	ParseAccount(data []byte) (*entities.AccountEntity, error)
}
