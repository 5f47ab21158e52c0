package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/heetch/confita"
	"github.com/heetch/confita/backend/file"

	"github.com/clustertools/dcswitch/internal/topology"
)

// SSHConfig contains remote command channel connection info
type SSHConfig struct {
	User           string        `config:"user" yaml:"user"`
	Port           int           `config:"port" yaml:"port"`
	KeyFile        string        `config:"key_file" yaml:"key_file"`
	KnownHostsFile string        `config:"known_hosts_file" yaml:"known_hosts_file"`
	DialTimeout    time.Duration `config:"dial_timeout" yaml:"dial_timeout"`
	CommandTimeout time.Duration `config:"command_timeout" yaml:"command_timeout"`
}

// PatroniConfig describes how the HA agent is installed on cluster nodes
type PatroniConfig struct {
	ConfigPath  string `config:"config_path" yaml:"config_path"`
	ServiceName string `config:"service_name" yaml:"service_name"`
	ClusterName string `config:"cluster_name" yaml:"cluster_name"`
}

// Config contains all dcswitch configuration
type Config struct {
	LogLevel             string                   `config:"loglevel"`
	Log                  string                   `config:"log"`
	Hostname             string                   `config:"hostname"`
	Lockfile             string                   `config:"lockfile"`
	Commands             map[string]string        `config:"commands"`
	TopologySource       string                   `config:"topology_source" yaml:"topology_source"`
	Sites                map[string][]string      `config:"sites"`
	MetaDB               topology.MetaDBConfig    `config:"metadb"`
	Zookeeper            topology.ZookeeperConfig `config:"zookeeper"`
	SSH                  SSHConfig                `config:"ssh"`
	Patroni              PatroniConfig            `config:"patroni"`
	StabilityMaxAttempts int                      `config:"stability_max_attempts" yaml:"stability_max_attempts"`
	StabilityInterval    time.Duration            `config:"stability_interval" yaml:"stability_interval"`
	MaxAcceptableLag     float64                  `config:"max_acceptable_lag" yaml:"max_acceptable_lag"`
}

const (
	TopologySourceStatic    = "static"
	TopologySourceMetaDB    = "metadb"
	TopologySourceZookeeper = "zookeeper"
)

// DefaultConfig returns default configuration for dcswitch
func DefaultConfig() (Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Config{}, err
	}
	config := Config{
		LogLevel:       "Info",
		Log:            "/var/log/dcswitch/dcswitch.log",
		Lockfile:       "/var/run/dcswitch/dcswitch.lock",
		Hostname:       hostname,
		Commands:       map[string]string{},
		TopologySource: TopologySourceStatic,
		Sites:          map[string][]string{},
		MetaDB:         topology.DefaultMetaDBConfig(),
		Zookeeper:      topology.DefaultZookeeperConfig(),
		SSH: SSHConfig{
			User:           "dcswitch",
			Port:           22,
			KeyFile:        "/etc/dcswitch/id_rsa",
			DialTimeout:    5 * time.Second,
			CommandTimeout: 60 * time.Second,
		},
		Patroni: PatroniConfig{
			ConfigPath:  "/etc/patroni/patroni.yml",
			ServiceName: "patroni",
			ClusterName: "main",
		},
		StabilityMaxAttempts: 30,
		StabilityInterval:    10 * time.Second,
		MaxAcceptableLag:     60.0,
	}
	return config, nil
}

// ReadFromFile reads config from file, performing all necessary checks
func ReadFromFile(configFile string) (*Config, error) {
	config, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	loader := confita.NewLoader(file.NewBackend(configFile))
	if err = loader.Load(context.Background(), &config); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %s", configFile, err.Error())
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	switch cfg.TopologySource {
	case TopologySourceStatic:
		if len(cfg.Sites) == 0 {
			return fmt.Errorf("topology_source is static, but no sites configured")
		}
	case TopologySourceMetaDB:
		if cfg.MetaDB.Host == "" {
			return fmt.Errorf("topology_source is metadb, fill metadb/host in config")
		}
	case TopologySourceZookeeper:
		if len(cfg.Zookeeper.Hosts) == 0 {
			return fmt.Errorf("topology_source is zookeeper, fill zookeeper/hosts in config")
		}
	default:
		return fmt.Errorf("unknown topology_source %q", cfg.TopologySource)
	}
	if cfg.StabilityMaxAttempts <= 0 {
		return fmt.Errorf("stability_max_attempts should be positive")
	}
	if cfg.StabilityInterval <= 0 {
		return fmt.Errorf("stability_interval should be positive")
	}
	return nil
}
