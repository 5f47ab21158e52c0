package app

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/clustertools/dcswitch/internal/patroni"
	"github.com/clustertools/dcswitch/internal/util"
)

type statusRow struct {
	Host  string  `yaml:"host"`
	Role  string  `yaml:"role"`
	State string  `yaml:"state"`
	Lag   float64 `yaml:"lag"`
	Tags  string  `yaml:"tags"`
}

// CliStatus prints discovered topology joined with live cluster status
func (app *App) CliStatus() int {
	ctx := app.baseContext()
	if err := app.initCluster(); err != nil {
		app.logger.Error(err.Error())
		return 1
	}
	defer app.closeCluster()

	status, err := app.controller.ReadStatus(ctx)
	if err != nil {
		app.logger.Error(err.Error())
		return 1
	}

	tree := make(map[string][]statusRow)
	for _, site := range app.sites {
		rows := make([]statusRow, 0, len(site.Hosts))
		for _, host := range site.Hosts {
			row := statusRow{Host: host, Role: string(patroni.RoleUnknown)}
			if node, ok := patroni.FindNode(status, host); ok {
				row.Role = string(node.Role)
				row.State = node.State
				row.Lag = node.Lag
				row.Tags = node.Tags.String()
			}
			rows = append(rows, row)
		}
		tree[site.Name] = rows
	}
	// status rows for hosts missing from topology are still worth showing
	for _, node := range status {
		if !util.ContainsString(app.sites.AllHosts(), node.Hostname) {
			tree["unassigned"] = append(tree["unassigned"], statusRow{
				Host:  node.Hostname,
				Role:  string(node.Role),
				State: node.State,
				Lag:   node.Lag,
				Tags:  node.Tags.String(),
			})
		}
	}

	data, err := yaml.Marshal(tree)
	if err != nil {
		app.logger.Error(err.Error())
		return 1
	}
	fmt.Print(string(data))
	return 0
}
