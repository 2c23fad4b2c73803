package main

import (
	"reflect"
	"testing"

	"kbridge/bridge"
	"kbridge/internal/config"
)

func TestClusterConfig_MapsAllFields(t *testing.T) {
	cfg := config.BridgeConfig{
		BootstrapServers: []string{"broker-1:9092", "broker-2:9092"},
		KafkaVersion:     "3.6.0",
		TLSEnabled:       true,
		SASLUser:         "alice",
		SASLPass:         "s3cret",
		AutoOffsetReset:  "earliest",
		EnableAutoCommit: true,
	}

	got := clusterConfig(cfg)
	want := bridge.ClusterConfig{
		Brokers:          cfg.BootstrapServers,
		Version:          cfg.KafkaVersion,
		TLSEnabled:       cfg.TLSEnabled,
		SASLUser:         cfg.SASLUser,
		SASLPass:         cfg.SASLPass,
		AutoOffsetReset:  cfg.AutoOffsetReset,
		EnableAutoCommit: cfg.EnableAutoCommit,
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("clusterConfig(%+v) = %+v, want %+v", cfg, got, want)
	}
}
