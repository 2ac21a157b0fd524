package ports

import "github.com/reglet-dev/provisioning-sdk/domain/entities"

// PayloadValidator checks raw request documents against the published wire schema
// before they are decoded.
type PayloadValidator interface {
	// Validate reports every schema violation found in data.
	// An error is returned only if validation could not be performed at all.
	Validate(data []byte) (*entities.ValidationResult, error)
}
