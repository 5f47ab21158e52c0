package patroni

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/clustertools/dcswitch/internal/log"
	"github.com/clustertools/dcswitch/internal/remote"
)

type statusReader interface {
	ReadStatus(ctx context.Context) ([]Node, error)
}

// StabilityMonitor polls cluster status until no node reports a
// transient state. Fixed attempt count, fixed sleep: convergence time
// of a restarted HA agent is well-characterized and bounded, so
// exponential backoff buys nothing here.
type StabilityMonitor struct {
	reader      statusReader
	logger      *log.Logger
	maxAttempts int
	interval    time.Duration
}

func NewStabilityMonitor(reader statusReader, logger *log.Logger, maxAttempts int, interval time.Duration) *StabilityMonitor {
	return &StabilityMonitor{
		reader:      reader,
		logger:      logger,
		maxAttempts: maxAttempts,
		interval:    interval,
	}
}

var errClusterTransient = errors.New("cluster has nodes in transient state")

// Wait blocks until the cluster is stable or the attempts bound is
// exhausted. Status read failures during the election window (no
// leader yet, node being restarted) count as transient observations;
// any other error aborts immediately.
func (m *StabilityMonitor) Wait(ctx context.Context) error {
	attempt := 0
	operation := func() error {
		attempt++
		nodes, err := m.reader.ReadStatus(ctx)
		if err != nil {
			var parseErr *StatusParseError
			var connErr *remote.ConnectivityError
			if errors.As(err, &parseErr) || errors.As(err, &connErr) {
				m.logger.Debugf("stability: attempt %d/%d: %v", attempt, m.maxAttempts, err)
				return errClusterTransient
			}
			return backoff.Permanent(err)
		}
		for _, node := range nodes {
			if node.IsTransient() {
				m.logger.Debugf("stability: attempt %d/%d: %s is %s", attempt, m.maxAttempts, node.Hostname, node.State)
				return errClusterTransient
			}
		}
		return nil
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(m.interval), uint64(m.maxAttempts-1)),
		ctx)
	err := backoff.Retry(operation, b)
	if errors.Is(err, errClusterTransient) {
		return &StabilityTimeoutError{Attempts: m.maxAttempts}
	}
	if err != nil {
		return err
	}
	m.logger.Infof("stability: cluster is stable after %d attempt(s)", attempt)
	return nil
}
