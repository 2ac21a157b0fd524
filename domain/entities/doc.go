// Package entities provides the provisioning request model.
// An ApplicationEntity wraps an ordered list of AccountEntity values, each carrying
// attribute changes and, optionally, entitlement actions grouped by namespace.
// All types are immutable after construction and safe to share between goroutines.
package entities
