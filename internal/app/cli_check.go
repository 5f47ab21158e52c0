package app

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// CliCheck prints a read-only health report for the requested
// migration without mutating any node
func (app *App) CliCheck(sourceSite, targetSite string) int {
	if sourceSite == "" || targetSite == "" {
		app.logger.Error("both --from and --to should be set")
		return 1
	}
	ctx := app.baseContext()
	if err := app.initCluster(); err != nil {
		app.logger.Error(err.Error())
		return 1
	}
	defer app.closeCluster()

	report := app.Simulate(ctx, sourceSite, targetSite)
	data, err := yaml.Marshal(report)
	if err != nil {
		app.logger.Error(err.Error())
		return 1
	}
	fmt.Print(string(data))
	if !report.Ok {
		return 1
	}
	return 0
}
