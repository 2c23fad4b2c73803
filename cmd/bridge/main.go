// Command bridge is the process entrypoint: it loads configuration, wires
// up logging and metrics, starts the admin gRPC surface, and would hand
// off newly attached AMQP links to bridge.SinkEndpoint if this process
// also embedded a connection acceptor. The acceptor itself is an external
// collaborator and isn't started here; this binary is the half of the
// bridge that owns Kafka-side lifecycle and operational surfaces.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kbridge/bridge"
	"kbridge/internal/config"
	"kbridge/internal/logging"
	"kbridge/internal/telemetry"
	"kbridge/internal/transport"
)

func main() {
	logging.InitFromEnv()

	path := os.Getenv("BRIDGE_CONFIG_PATH")
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.Expose(cfg.MetricsPort)

	registry := bridge.NewRegistry()
	srv, err := transport.StartServer(cfg.GRPCPort, registry)
	if err != nil {
		log.Fatalf("start admin server: %v", err)
	}
	go srv.Serve()

	logging.L().Info("bridge started",
		"grpc_port", cfg.GRPCPort,
		"metrics_port", cfg.MetricsPort,
		"bootstrap_servers", cfg.BootstrapServers,
	)

	<-ctx.Done()
	logging.L().Info("bridge shutting down")
	srv.Stop()
}

// clusterConfig translates the process-wide BridgeConfig into the
// per-endpoint ClusterConfig a bridge.SinkEndpoint needs at attach time. A
// connection acceptor would call this once and reuse the result for every
// SinkEndpoint it constructs.
func clusterConfig(cfg config.BridgeConfig) bridge.ClusterConfig {
	return bridge.ClusterConfig{
		Brokers:          cfg.BootstrapServers,
		Version:          cfg.KafkaVersion,
		TLSEnabled:       cfg.TLSEnabled,
		SASLUser:         cfg.SASLUser,
		SASLPass:         cfg.SASLPass,
		AutoOffsetReset:  cfg.AutoOffsetReset,
		EnableAutoCommit: cfg.EnableAutoCommit,
	}
}
