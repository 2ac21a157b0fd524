package schema

// Wire keys, in the order they are written.
const (
	keyApplication = "application"
	keyAccounts    = "accounts"

	keyID           = "id"
	keyAction       = "action"
	keyAttributes   = "attributes"
	keyEntitlements = "entitlements"

	keyValue = "value"

	keyNamespace = "namespace"
	keyActions   = "actions"
	keyRisk      = "risk"
)

// Keys permitted per object when unknown fields are disallowed.
var (
	applicationKeys = keySet(keyApplication, keyAccounts)
	accountKeys     = keySet(keyID, keyAction, keyAttributes, keyEntitlements)
	attributeKeys   = keySet(keyID, keyValue)
	namespaceKeys   = keySet(keyNamespace, keyActions)
	actionKeys      = keySet(keyAction, keyRisk, keyAttributes)
)

func keySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// join appends a key to a path.
func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
