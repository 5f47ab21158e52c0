package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/clustertools/dcswitch/internal/config"
	"github.com/clustertools/dcswitch/internal/log"
	"github.com/clustertools/dcswitch/internal/patroni"
	"github.com/clustertools/dcswitch/internal/remote"
	"github.com/clustertools/dcswitch/internal/topology"
)

// App is main application structure
type App struct {
	config     *config.Config
	logger     *log.Logger
	filelock   *flock.Flock
	exec       remote.Executor
	provider   topology.Provider
	sites      topology.Sites
	controller ClusterController
	monitor    StabilityWaiter
}

// NewApp returns new App
func NewApp(configFile, logLevel string) (*App, error) {
	cfg, err := config.ReadFromFile(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logger, err := log.Open(cfg.Log, logLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Log != "" {
		logger.ReOpenOnSignal(syscall.SIGUSR2)
	}
	return &App{
		config: cfg,
		logger: logger,
	}, nil
}

func (app *App) lockFile() error {
	app.filelock = flock.New(app.config.Lockfile)
	if locked, err := app.filelock.TryLock(); !locked {
		msg := "possibly another instance is running"
		if err != nil {
			msg = err.Error()
		}
		return fmt.Errorf("failed to acquire lock on %s: %s", app.config.Lockfile, msg)
	}
	return nil
}

func (app *App) unlockFile() {
	_ = app.filelock.Unlock()
}

func (app *App) baseContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
	return ctx
}

func (app *App) newTopologyProvider() (topology.Provider, error) {
	switch app.config.TopologySource {
	case config.TopologySourceStatic:
		return topology.NewStaticProvider(app.config.Sites), nil
	case config.TopologySourceMetaDB:
		return topology.NewMetaDBProvider(&app.config.MetaDB, app.logger)
	case config.TopologySourceZookeeper:
		return topology.NewZKProvider(&app.config.Zookeeper, app.logger)
	default:
		return nil, fmt.Errorf("unknown topology_source %q", app.config.TopologySource)
	}
}

// initCluster wires executor, topology and HA controller together.
// Topology is resolved once here; cluster status is re-read before
// every decision instead.
func (app *App) initCluster() error {
	exec, err := remote.NewSSHExecutor(&app.config.SSH, app.logger)
	if err != nil {
		return err
	}
	app.exec = exec
	app.provider, err = app.newTopologyProvider()
	if err != nil {
		return err
	}
	app.sites, err = app.provider.Resolve(app.config.Patroni.ClusterName)
	if err != nil {
		return err
	}
	controller := patroni.NewController(app.config, app.logger, app.exec, app.sites.AllHosts())
	app.controller = controller
	app.monitor = patroni.NewStabilityMonitor(controller, app.logger,
		app.config.StabilityMaxAttempts, app.config.StabilityInterval)
	return nil
}

func (app *App) closeCluster() {
	if closer, ok := app.provider.(io.Closer); ok {
		_ = closer.Close()
	}
	if app.exec != nil {
		_ = app.exec.Close()
	}
}
