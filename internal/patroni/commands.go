package patroni

import (
	"fmt"
	"regexp"
)

const (
	commandPing          = "ping"
	commandListCluster   = "list_cluster"
	commandGetConfig     = "get_config"
	commandSetNoFailover = "set_nofailover"
	commandSetNoSync     = "set_nosync"
	commandRestartAgent  = "restart_agent"
	commandSwitchover    = "switchover"
)

// Commands may be overridden one by one via the commands section of the
// config file; the defaults assume a systemd-managed Patroni with tags
// already present in its YAML config.
var defaultCommands = map[string]string{
	commandPing:          "/bin/true",
	commandListCluster:   "patronictl -c :patroni_config list :cluster_name --extended",
	commandGetConfig:     "sudo cat :patroni_config",
	commandSetNoFailover: `sudo sed -i 's/^\(\s*nofailover:\s*\)\(true\|false\)\s*$/\1:value/' :patroni_config`,
	commandSetNoSync:     `sudo sed -i 's/^\(\s*nosync:\s*\)\(true\|false\)\s*$/\1:value/' :patroni_config`,
	commandRestartAgent:  "sudo systemctl restart :service",
	commandSwitchover:    "patronictl -c :patroni_config switchover :cluster_name --leader :leader --candidate :candidate --force",
}

var placeholderRegexp = regexp.MustCompile(`:\w+`)

// mogrifyCommand replaces :placeholder marks with values from args
func mogrifyCommand(command string, args map[string]string) string {
	return placeholderRegexp.ReplaceAllStringFunc(command, func(n string) string {
		if v, ok := args[n[1:]]; ok {
			return v
		}
		return n
	})
}

func (c *Controller) getCommand(name string) string {
	command, ok := c.config.Commands[name]
	if !ok {
		command, ok = defaultCommands[name]
	}
	if !ok {
		panic(fmt.Sprintf("failed to find command with name '%s'", name))
	}
	return command
}

func (c *Controller) commandArgs() map[string]string {
	return map[string]string{
		"patroni_config": c.config.Patroni.ConfigPath,
		"service":        c.config.Patroni.ServiceName,
		"cluster_name":   c.config.Patroni.ClusterName,
	}
}
