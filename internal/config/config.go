// Package config provides the ambient configuration lookup used by the
// harness. Values are resolved from the environment first, then from an
// optional HCL config file, mirroring how the rest of the tooling resolves
// its settings.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
)

// Well-known lookup keys consumed by the harness.
const (
	KeyJDBCURL     = "datasource.jdbc.url"
	KeyReactiveURL = "datasource.reactive.url"
	KeyUsername    = "datasource.username"
	KeyPassword    = "datasource.password"
	KeyConnectURL  = "connect.url"
	KeyBrokers     = "kafka.brokers"
	KeyOutboxTopic = "kafka.outbox.topic"
)

// Source is a key to optional-string lookup capability. Keys are dotted,
// lower-case paths such as "datasource.jdbc.url".
type Source interface {
	// Get returns the value for key and whether it is present.
	Get(key string) (string, bool)

	// Require returns the value for key or an error if it is absent.
	Require(key string) (string, error)
}

// MissingKeyError reports a required configuration key that has no value.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required configuration key %q is not set", e.Key)
}

// EnvKey converts a dotted lookup key to its environment variable form:
// "datasource.jdbc.url" becomes "DATASOURCE_JDBC_URL".
func EnvKey(key string) string {
	return strcase.ToScreamingSnake(strings.ReplaceAll(key, ".", "_"))
}

// EnvSource resolves keys from process environment variables.
type EnvSource struct{}

func (EnvSource) Get(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvKey(key))
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s EnvSource) Require(key string) (string, error) {
	return requireValue(s, key)
}

// StaticSource resolves keys from a fixed map. Used by tests and by callers
// that assemble configuration programmatically.
type StaticSource map[string]string

func (s StaticSource) Get(key string) (string, bool) {
	v, ok := s[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s StaticSource) Require(key string) (string, error) {
	return requireValue(s, key)
}

// ChainSource consults its sources in order and returns the first present
// value. Require fails only when no source has the key.
type ChainSource []Source

// Chain builds a ChainSource from the given sources.
func Chain(sources ...Source) ChainSource {
	return ChainSource(sources)
}

func (c ChainSource) Get(key string) (string, bool) {
	for _, s := range c {
		if v, ok := s.Get(key); ok {
			return v, true
		}
	}
	return "", false
}

func (c ChainSource) Require(key string) (string, error) {
	return requireValue(c, key)
}

func requireValue(s Source, key string) (string, error) {
	v, ok := s.Get(key)
	if !ok {
		return "", &MissingKeyError{Key: key}
	}
	return v, nil
}
