package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "DATASOURCE_JDBC_URL", EnvKey("datasource.jdbc.url"))
	assert.Equal(t, "DATASOURCE_USERNAME", EnvKey("datasource.username"))
	assert.Equal(t, "CONNECT_URL", EnvKey("connect.url"))
	assert.Equal(t, "KAFKA_BROKERS", EnvKey("kafka.brokers"))
}

func TestEnvSource(t *testing.T) {
	t.Run("present value", func(t *testing.T) {
		t.Setenv("DATASOURCE_USERNAME", "postgres")

		v, ok := EnvSource{}.Get("datasource.username")
		require.True(t, ok)
		assert.Equal(t, "postgres", v)
	})

	t.Run("empty value counts as absent", func(t *testing.T) {
		t.Setenv("DATASOURCE_USERNAME", "")

		_, ok := EnvSource{}.Get("datasource.username")
		assert.False(t, ok)
	})

	t.Run("require missing", func(t *testing.T) {
		_, err := EnvSource{}.Require("datasource.nonexistent")
		require.Error(t, err)

		var missing *MissingKeyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "datasource.nonexistent", missing.Key)
	})
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{"datasource.username": "postgres"}

	v, ok := src.Get("datasource.username")
	require.True(t, ok)
	assert.Equal(t, "postgres", v)

	_, ok = src.Get("datasource.password")
	assert.False(t, ok)

	_, err := src.Require("datasource.password")
	assert.Error(t, err)
}

func TestChainSource(t *testing.T) {
	t.Run("first present value wins", func(t *testing.T) {
		chain := Chain(
			StaticSource{"connect.url": "http://first:8083"},
			StaticSource{"connect.url": "http://second:8083"},
		)

		v, ok := chain.Get("connect.url")
		require.True(t, ok)
		assert.Equal(t, "http://first:8083", v)
	})

	t.Run("falls through to later sources", func(t *testing.T) {
		chain := Chain(
			StaticSource{},
			StaticSource{"connect.url": "http://second:8083"},
		)

		v, err := chain.Require("connect.url")
		require.NoError(t, err)
		assert.Equal(t, "http://second:8083", v)
	})

	t.Run("require fails when no source has the key", func(t *testing.T) {
		chain := Chain(StaticSource{}, StaticSource{})

		_, err := chain.Require("connect.url")
		var missing *MissingKeyError
		require.ErrorAs(t, err, &missing)
	})
}
