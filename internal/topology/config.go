package topology

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ZookeeperConfig contains Zookeeper connection info for the zookeeper
// topology source
type ZookeeperConfig struct {
	Namespace             string        `config:"namespace" yaml:"namespace"`
	Hosts                 []string      `config:"hosts" yaml:"hosts"`
	SessionTimeout        time.Duration `config:"session_timeout" yaml:"session_timeout"`
	Auth                  bool          `config:"auth" yaml:"auth"`
	Username              string        `config:"username" yaml:"username"`
	Password              string        `config:"password" yaml:"password"`
	BackoffInterval       time.Duration `config:"backoff_interval" yaml:"backoff_interval"`
	BackoffMaxRetries     uint64        `config:"backoff_max_retries" yaml:"backoff_max_retries"`
	BackoffMaxElapsedTime time.Duration `config:"backoff_max_elapsed_time" yaml:"backoff_max_elapsed_time"`
	BackoffMaxInterval    time.Duration `config:"backoff_max_interval" yaml:"backoff_max_interval"`
	BackoffMultiplier     float64       `config:"backoff_multiplier" yaml:"backoff_multiplier"`
	BackoffRandFactor     float64       `config:"backoff_rand_factor" yaml:"backoff_rand_factor"`
}

// DefaultZookeeperConfig returns default Zookeeper connection configuration
func DefaultZookeeperConfig() ZookeeperConfig {
	return ZookeeperConfig{
		SessionTimeout:        2 * time.Second,
		BackoffInterval:       backoff.DefaultInitialInterval,
		BackoffRandFactor:     backoff.DefaultRandomizationFactor,
		BackoffMultiplier:     backoff.DefaultMultiplier,
		BackoffMaxInterval:    backoff.DefaultMaxInterval,
		BackoffMaxElapsedTime: backoff.DefaultMaxElapsedTime,
		BackoffMaxRetries:     10,
	}
}

// MetaDBConfig contains connection info for the metadb topology source
type MetaDBConfig struct {
	Host     string `config:"host" yaml:"host"`
	Port     int    `config:"port" yaml:"port"`
	User     string `config:"user" yaml:"user"`
	Password string `config:"password" yaml:"password"`
	Database string `config:"database" yaml:"database"`
	Table    string `config:"table" yaml:"table"`
}

// DefaultMetaDBConfig returns default metadb connection configuration
func DefaultMetaDBConfig() MetaDBConfig {
	return MetaDBConfig{
		Port:     3306,
		Database: "metadb",
		Table:    "cluster_hosts",
	}
}
