// Package credentials resolves and stores named secrets through an ordered
// fallback chain: the platform keyring, environment variables, and a local
// owner-only credentials file. Provider code never touches any of these
// directly; it only sees resolved values.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

const (
	// ServiceName is the keyring service under which all secrets are stored.
	ServiceName = "cmdrx"

	// EnvPrefix namespaces the environment-variable fallback,
	// e.g. key "openai_api_key" resolves via CMDRX_OPENAI_API_KEY.
	EnvPrefix = "CMDRX_"

	credentialsFile = "credentials.json"
)

// Source identifies where a credential was found or persisted.
type Source string

const (
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "environment"
	SourceFile    Source = "file"
	SourceNone    Source = "none"
)

// SecurityError indicates a credential could not be persisted through any
// available storage path.
type SecurityError struct {
	Key string
	Err error
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("failed to store credential %q: %v", e.Key, e.Err)
}

func (e *SecurityError) Unwrap() error {
	return e.Err
}

// systemStore abstracts the platform keyring so tests can substitute a
// broken or pre-seeded store.
type systemStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
}

type platformKeyring struct{}

func (platformKeyring) Get(service, key string) (string, error) {
	return keyring.Get(service, key)
}

func (platformKeyring) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}

// Resolver resolves named secrets. The resolution order is fixed:
// keyring, then environment, then the credentials file. A failure of any
// individual source is swallowed; resolution only fails by exhausting all
// three.
type Resolver struct {
	dir    string
	store  systemStore
	getenv func(string) string
	logger zerolog.Logger
}

// NewResolver creates a Resolver rooted at the given config directory
// (where the fallback credentials file lives).
func NewResolver(configDir string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		dir:    configDir,
		store:  platformKeyring{},
		getenv: os.Getenv,
		logger: logger,
	}
}

// Resolve returns the secret stored under key, and whether one was found.
func (r *Resolver) Resolve(key string) (string, bool) {
	value, source := r.ResolveDetail(key)
	return value, source != SourceNone
}

// ResolveDetail is Resolve plus the source that answered, so callers can
// surface where a secret came from without changing the chain contract.
func (r *Resolver) ResolveDetail(key string) (string, Source) {
	if value, err := r.store.Get(ServiceName, key); err == nil && value != "" {
		return value, SourceKeyring
	} else if err != nil && err != keyring.ErrNotFound {
		// A broken store is not fatal, but it can mask misconfiguration.
		r.logger.Debug().Str("key", key).Err(err).Msg("keyring unavailable, continuing fallback chain")
	}

	envVar := EnvPrefix + strings.ToUpper(key)
	if value := r.getenv(envVar); value != "" {
		r.logger.Debug().Str("key", key).Str("env", envVar).Msg("credential resolved from environment")
		return value, SourceEnv
	}

	creds, err := r.readFile()
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Debug().Str("key", key).Err(err).Msg("credentials file unreadable")
		}
		return "", SourceNone
	}
	if value := creds[key]; value != "" {
		r.logger.Debug().Str("key", key).Msg("credential resolved from credentials file")
		return value, SourceFile
	}

	return "", SourceNone
}

// Store persists a secret under key, preferring the platform keyring and
// falling back to the credentials file. It returns the destination actually
// used; the file fallback is the observable event callers may want to log.
func (r *Resolver) Store(key, value string) (Source, error) {
	if err := r.store.Set(ServiceName, key, value); err == nil {
		return SourceKeyring, nil
	} else {
		r.logger.Warn().Str("key", key).Err(err).Msg("keyring storage failed, falling back to credentials file")
	}

	if err := r.storeToFile(key, value); err != nil {
		return SourceNone, &SecurityError{Key: key, Err: err}
	}
	return SourceFile, nil
}

func (r *Resolver) filePath() string {
	return filepath.Join(r.dir, credentialsFile)
}

func (r *Resolver) readFile() (map[string]string, error) {
	data, err := os.ReadFile(r.filePath())
	if err != nil {
		return nil, err
	}
	creds := make(map[string]string)
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// storeToFile merges the secret into the existing credentials file,
// creating it with owner-only permissions if needed.
func (r *Resolver) storeToFile(key, value string) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	creds, err := r.readFile()
	if err != nil {
		// Missing or corrupt file: start over with a fresh mapping.
		creds = make(map[string]string)
	}
	creds[key] = value

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.filePath(), data, 0o600); err != nil {
		return err
	}
	// WriteFile only applies the mode on creation; enforce it on rewrites too.
	return os.Chmod(r.filePath(), 0o600)
}
