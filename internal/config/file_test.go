package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigHCL = `
datasource {
  jdbc_url = "jdbc:postgresql://localhost:5432/inventory"
  username = "postgres"
  password = "postgres"
}

connect {
  url = "http://localhost:8083"
}

kafka {
  brokers      = ["localhost:19092", "localhost:29092"]
  outbox_topic = "outbox.event.orders"
}
`

func TestParseFile(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		src, err := ParseFile([]byte(testConfigHCL), "test.hcl")
		require.NoError(t, err)

		v, ok := src.Get(KeyJDBCURL)
		require.True(t, ok)
		assert.Equal(t, "jdbc:postgresql://localhost:5432/inventory", v)

		v, ok = src.Get(KeyConnectURL)
		require.True(t, ok)
		assert.Equal(t, "http://localhost:8083", v)

		v, ok = src.Get(KeyBrokers)
		require.True(t, ok)
		assert.Equal(t, "localhost:19092,localhost:29092", v)

		v, ok = src.Get(KeyOutboxTopic)
		require.True(t, ok)
		assert.Equal(t, "outbox.event.orders", v)
	})

	t.Run("unset fields are absent", func(t *testing.T) {
		src, err := ParseFile([]byte(testConfigHCL), "test.hcl")
		require.NoError(t, err)

		_, ok := src.Get(KeyReactiveURL)
		assert.False(t, ok)
	})

	t.Run("empty file", func(t *testing.T) {
		src, err := ParseFile([]byte(""), "empty.hcl")
		require.NoError(t, err)

		_, ok := src.Get(KeyJDBCURL)
		assert.False(t, ok)
	})

	t.Run("invalid HCL", func(t *testing.T) {
		_, err := ParseFile([]byte(`datasource {`), "broken.hcl")
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/outboxtest.hcl", []byte(testConfigHCL), 0o644))

	t.Run("existing file", func(t *testing.T) {
		src, err := LoadFile(fs, "/etc/outboxtest.hcl")
		require.NoError(t, err)

		v, err := src.Require(KeyUsername)
		require.NoError(t, err)
		assert.Equal(t, "postgres", v)
	})

	t.Run("require missing key", func(t *testing.T) {
		src, err := LoadFile(fs, "/etc/outboxtest.hcl")
		require.NoError(t, err)

		_, err = src.Require("datasource.nonexistent")

		var missing *MissingKeyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "datasource.nonexistent", missing.Key)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(fs, "/etc/nope.hcl")
		assert.Error(t, err)
	})
}
