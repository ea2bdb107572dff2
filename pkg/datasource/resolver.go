// Package datasource resolves database connection parameters from ambient
// configuration. It understands both plain JDBC-style URLs and reactive
// driver URLs, and rewrites loopback hostnames so that a capture service
// running inside a container can reach the database.
package datasource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/capturekit/outboxtest/internal/config"
)

// ContainerHost is the hostname a containerized capture service uses to
// reach the machine running the test process.
const ContainerHost = "host.docker.internal"

// reactiveScheme is the reactive driver URL marker stripped during
// normalization, e.g. "vertx-reactive:postgresql://...".
const reactiveScheme = "vertx-reactive:"

// schemePrefixLen is the length of the "jdbc:" scheme prefix dropped before
// the remainder is parsed as a host/port/path URI.
const schemePrefixLen = len("jdbc:")

// urlKeys are the candidate configuration keys for the datasource URL, in
// priority order.
var urlKeys = []string{config.KeyJDBCURL, config.KeyReactiveURL}

// ConnectionParams holds the resolved database connection parameters. Values
// are derived once per registration attempt and never mutated afterwards.
type ConnectionParams struct {
	Hostname     string
	Port         int
	DatabaseName string
	Username     string
	Password     string
}

// ConfigurationError reports a missing or malformed ambient configuration
// value. It is fatal to the calling test and is never retried.
type ConfigurationError struct {
	Key    string
	Reason string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if e.Key != "" {
		msg = fmt.Sprintf("%s (key %q)", msg, e.Key)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// Resolve derives ConnectionParams from the given configuration source. It
// performs no network I/O. The datasource URL is taken from the first
// candidate key with a present value, normalized for container environments,
// and parsed; username and password are required keys.
func Resolve(src config.Source) (ConnectionParams, error) {
	raw, key, ok := firstPresent(src, urlKeys)
	if !ok {
		return ConnectionParams{}, &ConfigurationError{
			Reason: fmt.Sprintf("no datasource URL configured, tried %s", strings.Join(urlKeys, ", ")),
		}
	}

	// Exact substring replacement, not regex: only the literal "localhost"
	// is rewritten; "127.0.0.1" and other literals pass through untouched.
	normalized := strings.ReplaceAll(raw, reactiveScheme, "")
	normalized = strings.ReplaceAll(normalized, "localhost", ContainerHost)

	if len(normalized) <= schemePrefixLen {
		return ConnectionParams{}, &ConfigurationError{
			Key:    key,
			Reason: fmt.Sprintf("datasource URL %q is too short to contain a scheme prefix", raw),
		}
	}

	uri, err := url.Parse(normalized[schemePrefixLen:])
	if err != nil {
		return ConnectionParams{}, &ConfigurationError{
			Key:    key,
			Reason: "malformed datasource URL",
			Cause:  err,
		}
	}

	port := -1
	if p := uri.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return ConnectionParams{}, &ConfigurationError{
				Key:    key,
				Reason: "malformed datasource URL port",
				Cause:  err,
			}
		}
	}

	username, err := src.Require(config.KeyUsername)
	if err != nil {
		return ConnectionParams{}, &ConfigurationError{
			Key:    config.KeyUsername,
			Reason: "database username is not configured",
			Cause:  err,
		}
	}
	password, err := src.Require(config.KeyPassword)
	if err != nil {
		return ConnectionParams{}, &ConfigurationError{
			Key:    config.KeyPassword,
			Reason: "database password is not configured",
			Cause:  err,
		}
	}

	return ConnectionParams{
		Hostname:     uri.Hostname(),
		Port:         port,
		DatabaseName: strings.TrimPrefix(uri.Path, "/"),
		Username:     username,
		Password:     password,
	}, nil
}

// firstPresent returns the value of the first key that is set in src.
func firstPresent(src config.Source, keys []string) (value, key string, ok bool) {
	for _, k := range keys {
		if v, present := src.Get(k); present {
			return v, k, true
		}
	}
	return "", "", false
}
