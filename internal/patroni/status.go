package patroni

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/clustertools/dcswitch/internal/config"
	"github.com/clustertools/dcswitch/internal/log"
	"github.com/clustertools/dcswitch/internal/remote"
)

// Controller queries and manipulates the HA agents of cluster nodes
// over the remote command channel
type Controller struct {
	config *config.Config
	logger *log.Logger
	exec   remote.Executor
	hosts  []string
}

// NewController returns a Controller operating on the given hosts.
// Host order defines which node is asked for cluster status first.
func NewController(config *config.Config, logger *log.Logger, exec remote.Executor, hosts []string) *Controller {
	return &Controller{
		config: config,
		logger: logger,
		exec:   exec,
		hosts:  hosts,
	}
}

// Ping runs a trivial no-op on the host to check reachability
func (c *Controller) Ping(ctx context.Context, host string) error {
	command := mogrifyCommand(c.getCommand(commandPing), c.commandArgs())
	_, err := c.exec.Run(ctx, host, command)
	return err
}

// ReadStatus asks any currently reachable node for cluster status and
// returns parsed rows. Node records are rebuilt fresh on every call.
func (c *Controller) ReadStatus(ctx context.Context) ([]Node, error) {
	command := mogrifyCommand(c.getCommand(commandListCluster), c.commandArgs())
	var lastErr error
	for _, host := range c.hosts {
		out, err := c.exec.Run(ctx, host, command)
		if err != nil {
			c.logger.Debugf("status: failed to query %s: %v", host, err)
			lastErr = err
			continue
		}
		return parseClusterStatus(out)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no hosts to query")
	}
	return nil, fmt.Errorf("failed to read cluster status: %w", lastErr)
}

// parseClusterStatus parses the tabular output of the HA status command.
// The parse is pure: identical input always yields identical rows.
//
// Expected shape (patronictl list --extended):
//
//	+ Cluster: main -------+--------------+---------+----+-----------+------------------------------+
//	| Member | Host        | Role         | State   | TL | Lag in MB | Tags                         |
//	+--------+-------------+--------------+---------+----+-----------+------------------------------+
//	| pg1    | 10.40.0.11  | Leader       | running |  5 |           | nofailover: false            |
func parseClusterStatus(raw string) ([]Node, error) {
	var header []string
	var nodes []Node
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "+") {
			continue
		}
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cells := splitRow(line)
		if header == nil {
			header = cells
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(cells) {
				row[name] = cells[i]
			}
		}
		member := row["Member"]
		if member == "" {
			return nil, &StatusParseError{Reason: "row without member name"}
		}
		nodes = append(nodes, Node{
			Hostname: member,
			Role:     classifyRole(row["Role"]),
			State:    row["State"],
			Lag:      parseLag(row["Lag in MB"]),
			Tags:     parseTagsCell(row["Tags"]),
		})
	}
	if header == nil {
		return nil, &StatusParseError{Reason: "no status table found"}
	}
	if len(nodes) == 0 {
		return nil, &StatusParseError{Reason: "status table has no rows"}
	}
	if _, ok := Leader(nodes); !ok {
		return nil, &StatusParseError{Reason: "no leader found"}
	}
	return nodes, nil
}

func splitRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

func parseLag(cell string) float64 {
	if cell == "" {
		return 0
	}
	lag, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return LagUnknown
	}
	return lag
}

// parseTagsCell parses a tag summary like "nofailover: true, nosync: false".
// Missing tags default to false, which matches the HA agent defaults.
func parseTagsCell(cell string) TagState {
	var tags TagState
	for _, pair := range strings.Split(cell, ",") {
		k, v, found := strings.Cut(pair, ":")
		if !found {
			continue
		}
		val := strings.TrimSpace(v) == "true"
		switch strings.TrimSpace(k) {
		case "nofailover":
			tags.NoFailover = val
		case "nosync":
			tags.NoSync = val
		}
	}
	return tags
}
