package credentials

// Credentials is the on-disk shape of credentials.toml: API keys for
// the external embedding providers, keyed by provider name.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential holds the API key for one embedding provider.
type ProviderCredential struct {
	APIKey string `toml:"api_key"`
}

// KeyFor returns the stored key for an embedding provider, and whether
// a non-empty key exists. Environment variable precedence is handled by
// Manager.ResolveKey, not here.
func (c *Credentials) KeyFor(provider string) (string, bool) {
	pc, ok := c.Providers[provider]
	if !ok || pc.APIKey == "" {
		return "", false
	}
	return pc.APIKey, true
}
