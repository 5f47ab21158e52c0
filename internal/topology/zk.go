package topology

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-zookeeper/zk"

	"github.com/clustertools/dcswitch/internal/log"
)

// ZKProvider resolves the site mapping from Zookeeper.
// Layout: <namespace>/<cluster>/sites/<site> -> JSON array of hostnames.
type ZKProvider struct {
	config *ZookeeperConfig
	logger *log.Logger
	conn   *zk.Conn
}

type zkLoggerProxy struct{ *log.Logger }

func (zklp zkLoggerProxy) Printf(fmt string, args ...any) {
	zklp.Debugf(fmt, args...)
}

func retry(config *ZookeeperConfig, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.BackoffInterval
	b.RandomizationFactor = config.BackoffRandFactor
	b.Multiplier = config.BackoffMultiplier
	b.MaxInterval = config.BackoffMaxInterval
	b.MaxElapsedTime = config.BackoffMaxElapsedTime
	b.Reset()

	return backoff.Retry(operation, backoff.WithMaxRetries(b, config.BackoffMaxRetries))
}

func NewZKProvider(config *ZookeeperConfig, logger *log.Logger) (*ZKProvider, error) {
	if len(config.Hosts) == 0 {
		return nil, fmt.Errorf("zookeeper not configured, fill zookeeper/hosts in config")
	}
	if !strings.HasPrefix(config.Namespace, "/") {
		return nil, fmt.Errorf("zookeeper namespace should start with /")
	}
	if config.SessionTimeout == 0 {
		return nil, fmt.Errorf("zookeeper session timeout not configured")
	}

	var conn *zk.Conn
	err := retry(config, func() error {
		var err error
		conn, _, err = zk.Connect(config.Hosts, config.SessionTimeout, zk.WithLogger(zkLoggerProxy{logger}))
		return err
	})
	if err != nil {
		return nil, err
	}
	if config.Auth {
		if config.Username == "" || config.Password == "" {
			conn.Close()
			return nil, fmt.Errorf("zookeeper auth not configured, fill username/password in config or disable auth flag")
		}
		if err = conn.AddAuth("digest", []byte(fmt.Sprintf("%s:%s", config.Username, config.Password))); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return &ZKProvider{config: config, logger: logger, conn: conn}, nil
}

func (p *ZKProvider) sitesPath(clusterID string) string {
	return strings.TrimSuffix(p.config.Namespace, "/") + "/" + clusterID + "/sites"
}

func (p *ZKProvider) Resolve(clusterID string) (Sites, error) {
	path := p.sitesPath(clusterID)
	var names []string
	err := retry(p.config, func() error {
		var err error
		names, _, err = p.conn.Children(path)
		return err
	})
	if err == zk.ErrNoNode {
		return nil, &TopologyError{Cluster: clusterID, Reason: "no sites registered in zookeeper"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	sort.Strings(names)
	res := make(Sites, 0, len(names))
	for _, name := range names {
		var data []byte
		err = retry(p.config, func() error {
			var err error
			data, _, err = p.conn.Get(path + "/" + name)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s/%s: %w", path, name, err)
		}
		var hosts []string
		if err = json.Unmarshal(data, &hosts); err != nil {
			return nil, fmt.Errorf("malformed host list for site %s: %w", name, err)
		}
		if len(hosts) == 0 {
			return nil, &TopologyError{Cluster: clusterID, Reason: "site " + name + " has no hosts"}
		}
		res = append(res, Site{Name: name, Hosts: hosts})
	}
	if len(res) == 0 {
		return nil, &TopologyError{Cluster: clusterID, Reason: "no sites registered in zookeeper"}
	}
	return res, nil
}

func (p *ZKProvider) Close() error {
	p.conn.Close()
	return nil
}

var _ Provider = &ZKProvider{}
