package domain

// SecretStore persists small secrets keyed by service and key
type SecretStore interface {
	// Get returns ErrSecretNotFound when no value is stored
	Get(service, key string) (string, error)
	Set(service, key, value string) error
}
