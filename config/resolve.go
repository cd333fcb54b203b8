package config

import "github.com/cmdrx/cmdrx/credentials"

// ResolveCredentials builds the credential set the active provider requires,
// keyed by credential kind ("api_key" or "bearer_token"). Absent credentials
// simply leave the set empty; Validate decides whether that is fatal.
func ResolveCredentials(c Config, r *credentials.Resolver) map[string]string {
	creds := make(map[string]string)

	key, required := c.CredentialKey()
	if !required {
		return creds
	}

	value, ok := r.Resolve(key)
	if !ok {
		return creds
	}

	if c.Provider == ProviderCustom && c.AuthType == AuthBearerToken {
		creds[AuthBearerToken] = value
	} else {
		creds[AuthAPIKey] = value
	}
	return creds
}
