// Package ports defines interfaces between the provisioning model and its collaborators.
// Connectors, parsers and validators depend on these abstractions, and adapters in the
// application and infrastructure layers implement them.
package ports
