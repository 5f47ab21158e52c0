package app

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clustertools/dcswitch/internal/util"
)

// CliSwitch performs the site switchover and reports how far it got
func (app *App) CliSwitch(sourceSite, targetSite string) int {
	if sourceSite == "" || targetSite == "" {
		app.logger.Error("both --from and --to should be set")
		return 1
	}
	if sourceSite == targetSite {
		app.logger.Error("--from and --to should name different sites")
		return 1
	}
	if err := app.lockFile(); err != nil {
		app.logger.Error(err.Error())
		return 1
	}
	defer app.unlockFile()

	ctx := app.baseContext()
	if err := app.initCluster(); err != nil {
		app.logger.Error(err.Error())
		return 1
	}
	defer app.closeCluster()

	runID := uuid.New().String()
	initiator := util.GuessWhoRunning() + "@" + app.config.Hostname
	app.logger.Infof("switchover: run %s initiated by %s: site %s -> site %s",
		runID, initiator, sourceSite, targetSite)

	if err := app.runSwitchover(ctx, sourceSite, targetSite); err != nil {
		app.logger.Errorf("switchover: run %s failed: %v", runID, err)
		var phaseErr *PhaseError
		if errors.As(err, &phaseErr) {
			fmt.Println(phaseErr.Error())
		} else {
			fmt.Printf("switchover aborted: %v\n", err)
		}
		return 1
	}
	app.logger.Infof("switchover: run %s done", runID)
	fmt.Println("switchover done")
	return 0
}
