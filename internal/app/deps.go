package app

//go:generate mockgen -source=deps.go -destination=mocks_test.go -package=app

import (
	"context"

	"github.com/clustertools/dcswitch/internal/patroni"
)

// ClusterController is what the coordinator needs from the HA agent
// control layer
type ClusterController interface {
	Ping(ctx context.Context, host string) error
	ReadStatus(ctx context.Context) ([]patroni.Node, error)
	ApplyTags(ctx context.Context, host string, tags patroni.TagState) error
	TransferLeadership(ctx context.Context, leader, candidate string) error
}

// StabilityWaiter gates phase transitions on cluster convergence
type StabilityWaiter interface {
	Wait(ctx context.Context) error
}
