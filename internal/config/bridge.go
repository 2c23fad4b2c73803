// Package config loads the bridge's process-wide Kafka client settings.
//
// Per-link settings (topic, group id, partition/offset filters) come from
// the AMQP address and source filters instead; see package amqp.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const schemaVersion = "v1"

// BridgeConfig holds the process-wide Kafka client settings: the
// bootstrap servers, (de)serializer names, and the two Kafka consumer
// defaults every sink endpoint's worker is configured with unless a
// link's filters say otherwise.
type BridgeConfig struct {
	BootstrapServers []string `koanf:"bootstrap_servers"`
	KeyDeserializer  string   `koanf:"key_deserializer"`
	ValueDeserializer string  `koanf:"value_deserializer"`
	EnableAutoCommit bool     `koanf:"enable_auto_commit"`
	AutoOffsetReset  string   `koanf:"auto_offset_reset"`

	KafkaVersion string `koanf:"kafka_version"`
	TLSEnabled   bool   `koanf:"tls_enabled"`
	SASLUser     string `koanf:"sasl_user"`
	SASLPass     string `koanf:"sasl_pass"`

	GRPCPort    int `koanf:"grpc_port"`
	MetricsPort int `koanf:"metrics_port"`
}

// Load merges YAML (if present at path) with BRIDGE__-prefixed env vars,
// the latter taking precedence so a deployment can override any single
// field without templating the whole file.
func Load(path string) (BridgeConfig, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return BridgeConfig{}, err
		}
	}

	if sv := k.String("schema_version"); sv != "" && sv != schemaVersion {
		return BridgeConfig{}, fmt.Errorf("bridge config schema_version %q not supported (want %q)", sv, schemaVersion)
	}

	_ = k.Load(env.Provider("BRIDGE__", "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "BRIDGE__"))
	}), nil)

	var cfg BridgeConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(c *BridgeConfig) {
	if c.KeyDeserializer == "" {
		c.KeyDeserializer = "string"
	}
	if c.ValueDeserializer == "" {
		c.ValueDeserializer = "bytearray"
	}
	if c.AutoOffsetReset == "" {
		c.AutoOffsetReset = "latest"
	}
	if c.KafkaVersion == "" {
		c.KafkaVersion = "3.6.0"
	}
	if c.GRPCPort == 0 {
		c.GRPCPort = 7070
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 9100
	}
}
