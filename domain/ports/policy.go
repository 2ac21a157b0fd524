package ports

import "github.com/reglet-dev/provisioning-sdk/domain/entities"

// RequestPolicy enforces caller-level rules on decoded requests.
// The model itself is permissive; a policy is where stricter rules live.
type RequestPolicy interface {
	CheckApplication(app *entities.ApplicationEntity) *entities.ValidationResult
	CheckAccount(application string, account *entities.AccountEntity) *entities.ValidationResult
}
