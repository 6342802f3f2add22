package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/irrigation-node/internal/services/node"
	"github.com/LeonardoBeccarini/irrigation-node/pkg/dedup"
	"github.com/LeonardoBeccarini/irrigation-node/pkg/logger"
	"github.com/LeonardoBeccarini/irrigation-node/pkg/rabbitmq"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "irrigation-node")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("node stopped", zap.Error(err))
	}
	log.Info("node stopped")
}

func run(cfg Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting simulated irrigation node",
		zap.String("node_id", cfg.NodeID),
		zap.String("broker", fmt.Sprintf("%s:%d", cfg.MQTTHost, cfg.MQTTPort)))

	// === Metrics ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := node.NewMetrics(reg)

	// === Journal (optional) ===
	var journal node.Journal
	if cfg.JournalEnabled() {
		influx := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
		defer influx.Close()
		journal = node.NewInfluxJournal(cfg.NodeID, influx.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
			node.JournalConfig{}, log.Named("journal"))
		log.Info("decision journal enabled", zap.String("url", cfg.InfluxURL), zap.String("bucket", cfg.InfluxBucket))
	}

	// === Core ===
	topics := node.NewTopics(cfg.TopicRoot, cfg.NodeID)
	state := node.NewNodeState()
	dispatcher := node.NewDispatcher(topics, state)

	// === MQTT ===
	// set once subscriptions exist; reconnections restore them
	var consumer atomic.Pointer[rabbitmq.MultiConsumer]
	mqCfg := &rabbitmq.RabbitMQConfig{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		User:     cfg.MQTTUser,
		Password: cfg.MQTTPassword,
		ClientID: cfg.ClientID,
		OnConnect: func(mqtt.Client) {
			if c := consumer.Load(); c != nil {
				c.Resubscribe()
			}
		},
	}
	client, err := rabbitmq.NewRabbitMQConn(ctx, mqCfg, log.Named("mqtt"))
	if err != nil {
		return err
	}
	defer rabbitmq.CloseRabbitMQConn(client, log)

	qos := byte(cfg.StatusQoS)
	svc, err := node.NewService(dispatcher, node.Options{
		Publisher:         rabbitmq.NewPublisher(client, qos, log.Named("publisher")),
		Metrics:           metrics,
		Journal:           journal,
		Deduper:           dedup.New(2*time.Minute, 10000),
		RepublishInterval: cfg.RepublishInterval,
		Logger:            log,
	})
	if err != nil {
		return err
	}
	mc := rabbitmq.NewMultiConsumer(client, topics.Subscriptions(), qos, svc.HandleMessage, log.Named("consumer"))
	consumer.Store(mc)

	errCh := make(chan error, 4)

	// === HTTP ===
	var hs *http.Server
	if cfg.HTTPPort != 0 {
		hs = &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
			Handler:           node.NewHTTPMux(client, state, reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("HTTP listening", zap.String("addr", hs.Addr))
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	// === gRPC health ===
	if cfg.GRPCPort != 0 {
		lis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.GRPCPort))
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		hsrv := node.NewHealthServer(client, 5*time.Second, log.Named("grpc"))
		go func() {
			if err := hsrv.Serve(ctx, lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// === Consume + process ===
	go func() {
		if err := mc.ConsumeMessage(ctx); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down...")
	case err := <-errCh:
		stop()
		return err
	}

	if hs != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shCtx)
	}
	return nil
}
