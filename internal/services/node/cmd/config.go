package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LeonardoBeccarini/irrigation-node/internal/services/node"
)

type Config struct {
	NodeID string

	MQTTHost     string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	ClientID     string

	TopicRoot         string
	StatusQoS         int
	RepublishInterval time.Duration

	HTTPPort int
	GRPCPort int

	LogLevel  string
	LogFormat string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

func env(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDuration(k string, d time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

// loadConfig reads the environment, then lets flags override it.
func loadConfig(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("irrigation-node", flag.ContinueOnError)
	fs.StringVar(&cfg.NodeID, "node-id", env("NODE_ID", ""), "node identity (e.g. 550e8400-e29b-41d4-a716-446655440000)")
	fs.StringVar(&cfg.MQTTHost, "mqtt-host", env("MQTT_HOST", "localhost"), "MQTT broker host")
	fs.IntVar(&cfg.MQTTPort, "mqtt-port", envInt("MQTT_PORT", 1883), "MQTT broker port")
	fs.StringVar(&cfg.MQTTUser, "mqtt-user", env("MQTT_USER", ""), "MQTT username")
	fs.StringVar(&cfg.MQTTPassword, "mqtt-password", env("MQTT_PASSWORD", ""), "MQTT password")
	fs.StringVar(&cfg.ClientID, "client-id", env("MQTT_CLIENT_ID", ""), "MQTT client id (default mock_node_<node id prefix>)")
	fs.StringVar(&cfg.TopicRoot, "topic-root", env("TOPIC_ROOT", node.DefaultTopicRoot), "first topic segment")
	fs.IntVar(&cfg.StatusQoS, "status-qos", envInt("STATUS_QOS", 0), "QoS for status reports and subscriptions")
	fs.DurationVar(&cfg.RepublishInterval, "republish-interval", envDuration("STATUS_REPUBLISH_INTERVAL", 0), "republish zone statuses every interval (0 disables)")
	fs.IntVar(&cfg.HTTPPort, "http-port", envInt("HTTP_PORT", 8080), "HTTP port for health, state and metrics (0 disables)")
	fs.IntVar(&cfg.GRPCPort, "grpc-port", envInt("GRPC_PORT", 0), "gRPC health port (0 disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", env("LOG_LEVEL", "info"), "debug|info|warn|error")
	fs.StringVar(&cfg.LogFormat, "log-format", env("LOG_FORMAT", "console"), "console|json")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.InfluxURL = env("INFLUX_URL", "")
	cfg.InfluxToken = env("INFLUX_TOKEN", "")
	cfg.InfluxOrg = env("INFLUX_ORG", "irrigation")
	cfg.InfluxBucket = env("INFLUX_BUCKET", "node-events")

	cfg.NodeID = strings.TrimSpace(cfg.NodeID)
	if cfg.ClientID == "" {
		cfg.ClientID = defaultClientID(cfg.NodeID)
	}
	return cfg, cfg.Validate()
}

func defaultClientID(nodeID string) string {
	prefix := nodeID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "mock_node_" + prefix
}

func validPort(p int) bool { return p >= 1 && p <= 65535 }

func (c Config) Validate() error {
	var errs []error
	if c.NodeID == "" {
		errs = append(errs, errors.New("node id is required (--node-id or NODE_ID)"))
	}
	if strings.ContainsAny(c.NodeID, "/+#") {
		errs = append(errs, fmt.Errorf("node id %q must not contain topic separators or wildcards", c.NodeID))
	}
	if !validPort(c.MQTTPort) {
		errs = append(errs, fmt.Errorf("invalid MQTT port %d", c.MQTTPort))
	}
	if c.StatusQoS < 0 || c.StatusQoS > 2 {
		errs = append(errs, fmt.Errorf("invalid QoS %d", c.StatusQoS))
	}
	if c.HTTPPort != 0 && !validPort(c.HTTPPort) {
		errs = append(errs, fmt.Errorf("invalid HTTP port %d", c.HTTPPort))
	}
	if c.GRPCPort != 0 && !validPort(c.GRPCPort) {
		errs = append(errs, fmt.Errorf("invalid gRPC port %d", c.GRPCPort))
	}
	if c.RepublishInterval < 0 {
		errs = append(errs, fmt.Errorf("invalid republish interval %s", c.RepublishInterval))
	}
	return errors.Join(errs...)
}

func (c Config) JournalEnabled() bool {
	return c.InfluxURL != "" && c.InfluxToken != ""
}
