package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
)

// fileSchema is the HCL shape of a harness config file:
//
//	datasource {
//	  jdbc_url = "jdbc:postgresql://localhost:5432/inventory"
//	  username = "postgres"
//	  password = "postgres"
//	}
//
//	connect {
//	  url = "http://localhost:8083"
//	}
//
//	kafka {
//	  brokers      = ["localhost:19092"]
//	  outbox_topic = "outbox.event.events"
//	}
type fileSchema struct {
	Datasource *datasourceBlock `hcl:"datasource,block"`
	Connect    *connectBlock    `hcl:"connect,block"`
	Kafka      *kafkaBlock      `hcl:"kafka,block"`
}

type datasourceBlock struct {
	JDBCURL     string `hcl:"jdbc_url,optional"`
	ReactiveURL string `hcl:"reactive_url,optional"`
	Username    string `hcl:"username,optional"`
	Password    string `hcl:"password,optional"`
}

type connectBlock struct {
	URL string `hcl:"url,optional"`
}

type kafkaBlock struct {
	Brokers     []string `hcl:"brokers,optional"`
	OutboxTopic string   `hcl:"outbox_topic,optional"`
}

// FileSource resolves keys from a parsed HCL config file.
type FileSource struct {
	values map[string]string
}

// LoadFile parses the HCL config file at path on the given filesystem.
func LoadFile(fs afero.Fs, path string) (*FileSource, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseFile(data, path)
}

// ParseFile parses HCL config file contents. filename is used in diagnostics
// only.
func ParseFile(data []byte, filename string) (*FileSource, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %w", diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file: %w", diags)
	}

	src := &FileSource{values: map[string]string{}}
	if ds := schema.Datasource; ds != nil {
		src.set(KeyJDBCURL, ds.JDBCURL)
		src.set(KeyReactiveURL, ds.ReactiveURL)
		src.set(KeyUsername, ds.Username)
		src.set(KeyPassword, ds.Password)
	}
	if c := schema.Connect; c != nil {
		src.set(KeyConnectURL, c.URL)
	}
	if k := schema.Kafka; k != nil {
		src.set(KeyBrokers, strings.Join(k.Brokers, ","))
		src.set(KeyOutboxTopic, k.OutboxTopic)
	}
	return src, nil
}

func (s *FileSource) set(key, value string) {
	if value != "" {
		s.values[key] = value
	}
}

func (s *FileSource) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *FileSource) Require(key string) (string, error) {
	return requireValue(s, key)
}
