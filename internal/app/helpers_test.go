package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/clustertools/dcswitch/internal/config"
	"github.com/clustertools/dcswitch/internal/log"
	"github.com/clustertools/dcswitch/internal/patroni"
	"github.com/clustertools/dcswitch/internal/remote"
	"github.com/clustertools/dcswitch/internal/topology"
)

func getLogger(t *testing.T) *log.Logger {
	logger, err := log.Open("/dev/stderr", "error")
	require.NoError(t, err)
	return logger
}

type fakeNode struct {
	host  string
	role  patroni.Role
	state string
	lag   float64
	tags  patroni.TagState
}

// fakeCluster emulates HA agent behavior behind the ClusterController
// interface: tag flips persist, leadership transfer re-elects, and the
// HA controller refuses a candidate excluded from election.
type fakeCluster struct {
	nodes       []*fakeNode
	unreachable map[string]bool
	applyErr    map[string]error
	stuckLeader bool
	applies     map[string][]patroni.TagState
	transfers   int
}

func newFakeCluster(nodes ...*fakeNode) *fakeCluster {
	return &fakeCluster{
		nodes:       nodes,
		unreachable: make(map[string]bool),
		applyErr:    make(map[string]error),
		applies:     make(map[string][]patroni.TagState),
	}
}

func (fc *fakeCluster) find(host string) *fakeNode {
	for _, n := range fc.nodes {
		if n.host == host {
			return n
		}
	}
	return nil
}

func (fc *fakeCluster) totalApplies() int {
	total := 0
	for _, applies := range fc.applies {
		total += len(applies)
	}
	return total
}

func (fc *fakeCluster) leader() *fakeNode {
	for _, n := range fc.nodes {
		if n.role == patroni.RoleLeader {
			return n
		}
	}
	return nil
}

func (fc *fakeCluster) ping(_ context.Context, host string) error {
	if fc.unreachable[host] {
		return &remote.ConnectivityError{Host: host, Err: fmt.Errorf("no route to host")}
	}
	return nil
}

func (fc *fakeCluster) readStatus(_ context.Context) ([]patroni.Node, error) {
	res := make([]patroni.Node, 0, len(fc.nodes))
	for _, n := range fc.nodes {
		res = append(res, patroni.Node{
			Hostname: n.host,
			Role:     n.role,
			State:    n.state,
			Lag:      n.lag,
			Tags:     n.tags,
		})
	}
	if _, ok := patroni.Leader(res); !ok {
		return nil, &patroni.StatusParseError{Reason: "no leader found"}
	}
	return res, nil
}

func (fc *fakeCluster) applyTags(_ context.Context, host string, tags patroni.TagState) error {
	if err := fc.applyErr[host]; err != nil {
		return err
	}
	if fc.unreachable[host] {
		return &patroni.TagUpdateError{Host: host, Err: fmt.Errorf("no route to host")}
	}
	node := fc.find(host)
	if node == nil {
		return &patroni.TagUpdateError{Host: host, Err: fmt.Errorf("unknown host")}
	}
	node.tags = tags
	fc.applies[host] = append(fc.applies[host], tags)
	return nil
}

func (fc *fakeCluster) transferLeadership(_ context.Context, leader, candidate string) error {
	fc.transfers++
	cand := fc.find(candidate)
	cur := fc.find(leader)
	if cand == nil || cur == nil || cur.role != patroni.RoleLeader {
		return &patroni.ElectionCommandError{Leader: leader, Candidate: candidate, Err: fmt.Errorf("bad transfer request")}
	}
	if cand.tags.NoFailover {
		return &patroni.ElectionCommandError{Leader: leader, Candidate: candidate, Err: fmt.Errorf("candidate is excluded from election")}
	}
	if fc.stuckLeader {
		// emulates an election that silently did not happen
		return nil
	}
	cur.role = patroni.RoleReplica
	cand.role = patroni.RoleLeader
	return nil
}

func newTestApp(t *testing.T, fc *fakeCluster, sites topology.Sites) *App {
	ctrl := gomock.NewController(t)
	controller := NewMockClusterController(ctrl)
	controller.EXPECT().Ping(gomock.Any(), gomock.Any()).DoAndReturn(fc.ping).AnyTimes()
	controller.EXPECT().ReadStatus(gomock.Any()).DoAndReturn(fc.readStatus).AnyTimes()
	controller.EXPECT().ApplyTags(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(fc.applyTags).AnyTimes()
	controller.EXPECT().TransferLeadership(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(fc.transferLeadership).AnyTimes()
	monitor := NewMockStabilityWaiter(ctrl)
	monitor.EXPECT().Wait(gomock.Any()).Return(nil).AnyTimes()

	cfg, err := config.DefaultConfig()
	require.NoError(t, err)
	return &App{
		config:     &cfg,
		logger:     getLogger(t),
		sites:      sites,
		controller: controller,
		monitor:    monitor,
	}
}

func twoSiteTopology() topology.Sites {
	return topology.Sites{
		{Name: "dc1", Hosts: []string{"pg1", "pg2"}},
		{Name: "dc2", Hosts: []string{"pg3", "pg4"}},
	}
}
