package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clustertools/dcswitch/internal/patroni"
	"github.com/clustertools/dcswitch/internal/remote"
	"github.com/clustertools/dcswitch/internal/topology"
)

func TestSwitchoverMigratesLeadershipAndPreservesSyncFactor(t *testing.T) {
	fc := newFakeCluster(
		&fakeNode{host: "pg1", role: patroni.RoleLeader, state: "running"},
		&fakeNode{host: "pg2", role: patroni.RoleSyncStandby, state: "streaming"},
		&fakeNode{host: "pg3", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: true, NoSync: true}},
		&fakeNode{host: "pg4", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: true, NoSync: true}},
	)
	app := newTestApp(t, fc, twoSiteTopology())

	err := app.runSwitchover(context.Background(), "dc1", "dc2")
	require.NoError(t, err)

	// exactly one leader and it moved to the target site
	leader := fc.leader()
	require.NotNil(t, leader)
	require.Equal(t, "pg3", leader.host)

	// sync factor of one is carried over: the single non-leader target
	// node keeps sync eligibility, the new leader drops out
	require.Equal(t, patroni.TagState{NoFailover: false, NoSync: true}, fc.find("pg3").tags)
	require.Equal(t, patroni.TagState{NoFailover: false, NoSync: false}, fc.find("pg4").tags)

	// source site is fully demoted
	require.Equal(t, patroni.TagState{NoFailover: true, NoSync: true}, fc.find("pg1").tags)
	require.Equal(t, patroni.TagState{NoFailover: true, NoSync: true}, fc.find("pg2").tags)
}

func TestSwitchoverPreservesSyncFactorOfTwo(t *testing.T) {
	fc := newFakeCluster(
		&fakeNode{host: "pg1", role: patroni.RoleLeader, state: "running"},
		&fakeNode{host: "pg2", role: patroni.RoleSyncStandby, state: "streaming"},
		&fakeNode{host: "pg3", role: patroni.RoleSyncStandby, state: "streaming"},
		&fakeNode{host: "pg4", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: true, NoSync: true}},
		&fakeNode{host: "pg5", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: true, NoSync: true}},
		&fakeNode{host: "pg6", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: true, NoSync: true}},
	)
	sites := topology.Sites{
		{Name: "dc1", Hosts: []string{"pg1", "pg2", "pg3"}},
		{Name: "dc2", Hosts: []string{"pg4", "pg5", "pg6"}},
	}
	app := newTestApp(t, fc, sites)

	err := app.runSwitchover(context.Background(), "dc1", "dc2")
	require.NoError(t, err)

	require.Equal(t, "pg4", fc.leader().host)
	require.Equal(t, patroni.TagState{NoFailover: false, NoSync: true}, fc.find("pg4").tags)
	require.Equal(t, patroni.TagState{NoFailover: false, NoSync: false}, fc.find("pg5").tags)
	require.Equal(t, patroni.TagState{NoFailover: false, NoSync: false}, fc.find("pg6").tags)
}

func TestSwitchoverWithZeroSyncCountSkipsRebalance(t *testing.T) {
	fc := newFakeCluster(
		&fakeNode{host: "pg1", role: patroni.RoleLeader, state: "running"},
		&fakeNode{host: "pg2", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: false, NoSync: true}},
		&fakeNode{host: "pg3", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: true, NoSync: true}},
		&fakeNode{host: "pg4", role: patroni.RoleReplica, state: "streaming", tags: patroni.TagState{NoFailover: true, NoSync: true}},
	)
	app := newTestApp(t, fc, twoSiteTopology())

	err := app.runSwitchover(context.Background(), "dc1", "dc2")
	require.NoError(t, err)

	require.Equal(t, "pg3", fc.leader().host)
	// all target non-leader nodes end sync-excluded
	require.Equal(t, patroni.TagState{NoFailover: false, NoSync: true}, fc.find("pg3").tags)
	require.Equal(t, patroni.TagState{NoFailover: false, NoSync: true}, fc.find("pg4").tags)
	// REBALANCE_SYNC performed no mutation: target nodes were touched
	// only by PREP_TARGET
	require.Len(t, fc.applies["pg3"], 1)
	require.Len(t, fc.applies["pg4"], 1)
}

func TestSwitchoverAbortsWhenCandidateUnreachable(t *testing.T) {
	fc := newFakeCluster(
		&fakeNode{host: "pg1", role: patroni.RoleLeader, state: "running"},
		&fakeNode{host: "pg2", role: patroni.RoleSyncStandby, state: "streaming"},
		&fakeNode{host: "pg3", role: patroni.RoleReplica, state: "streaming"},
		&fakeNode{host: "pg4", role: patroni.RoleReplica, state: "streaming"},
	)
	fc.unreachable["pg3"] = true
	app := newTestApp(t, fc, twoSiteTopology())

	err := app.runSwitchover(context.Background(), "dc1", "dc2")
	require.Error(t, err)

	var connErr *remote.ConnectivityError
	require.True(t, errors.As(err, &connErr))
	require.Equal(t, "pg3", connErr.Host)
	var phaseErr *PhaseError
	require.True(t, errors.As(err, &phaseErr))
	require.Equal(t, PhasePreflight, phaseErr.Phase)

	// preflight failed before phase 1: nothing was mutated
	require.Zero(t, fc.totalApplies())
	require.Zero(t, fc.transfers)
}

func TestSwitchoverAbortsOnTagUpdateFailure(t *testing.T) {
	fc := newFakeCluster(
		&fakeNode{host: "pg1", role: patroni.RoleLeader, state: "running"},
		&fakeNode{host: "pg2", role: patroni.RoleSyncStandby, state: "streaming"},
		&fakeNode{host: "pg3", role: patroni.RoleReplica, state: "streaming"},
		&fakeNode{host: "pg4", role: patroni.RoleReplica, state: "streaming"},
	)
	fc.applyErr["pg2"] = &patroni.VerificationError{Host: "pg2", Want: patroni.TagState{NoFailover: true, NoSync: true}}
	app := newTestApp(t, fc, twoSiteTopology())

	err := app.runSwitchover(context.Background(), "dc1", "dc2")
	require.Error(t, err)

	var phaseErr *PhaseError
	require.True(t, errors.As(err, &phaseErr))
	require.Equal(t, PhasePrepSource, phaseErr.Phase)
	require.Equal(t, "pg2", phaseErr.Node)

	// the run stopped where it failed: leadership was never transferred
	// and the old leader kept its tags
	require.Zero(t, fc.transfers)
	require.Equal(t, "pg1", fc.leader().host)
	require.Empty(t, fc.applies["pg1"])
}

func TestSwitchoverAbortsWhenLeaderOutsideSourceSite(t *testing.T) {
	fc := newFakeCluster(
		&fakeNode{host: "pg1", role: patroni.RoleReplica, state: "streaming"},
		&fakeNode{host: "pg2", role: patroni.RoleSyncStandby, state: "streaming"},
		&fakeNode{host: "pg3", role: patroni.RoleLeader, state: "running"},
		&fakeNode{host: "pg4", role: patroni.RoleReplica, state: "streaming"},
	)
	app := newTestApp(t, fc, twoSiteTopology())

	err := app.runSwitchover(context.Background(), "dc1", "dc2")
	require.Error(t, err)

	var topoErr *topology.TopologyError
	require.True(t, errors.As(err, &topoErr))
	require.Zero(t, fc.totalApplies())
}

func TestSwitchoverAbortsWhenElectionDidNotConverge(t *testing.T) {
	fc := newFakeCluster(
		&fakeNode{host: "pg1", role: patroni.RoleLeader, state: "running"},
		&fakeNode{host: "pg2", role: patroni.RoleSyncStandby, state: "streaming"},
		&fakeNode{host: "pg3", role: patroni.RoleReplica, state: "streaming"},
		&fakeNode{host: "pg4", role: patroni.RoleReplica, state: "streaming"},
	)
	fc.stuckLeader = true
	app := newTestApp(t, fc, twoSiteTopology())

	err := app.runSwitchover(context.Background(), "dc1", "dc2")
	require.Error(t, err)

	var phaseErr *PhaseError
	require.True(t, errors.As(err, &phaseErr))
	require.Equal(t, PhaseElect, phaseErr.Phase)
	var electErr *patroni.ElectionCommandError
	require.True(t, errors.As(err, &electErr))
}

func TestBuildPlanSelectsCandidateDeterministically(t *testing.T) {
	sites := twoSiteTopology()
	status := []patroni.Node{
		{Hostname: "pg1", Role: patroni.RoleLeader},
		{Hostname: "pg2", Role: patroni.RoleSyncStandby},
		{Hostname: "pg3", Role: patroni.RoleReplica},
		{Hostname: "pg4", Role: patroni.RoleReplica},
	}
	first, err := buildPlan("main", sites, status, "dc1", "dc2")
	require.NoError(t, err)
	second, err := buildPlan("main", sites, status, "dc1", "dc2")
	require.NoError(t, err)

	require.Equal(t, first.CandidateLeader, second.CandidateLeader)
	require.Equal(t, "pg3", first.CandidateLeader)
	require.Equal(t, "pg1", first.CurrentLeader)
	require.Equal(t, 1, first.PreservedSyncCount)
}

func TestBuildPlanCountsOnlyNonLeaderSyncMembers(t *testing.T) {
	sites := twoSiteTopology()
	status := []patroni.Node{
		{Hostname: "pg1", Role: patroni.RoleLeader},
		{Hostname: "pg2", Role: patroni.RoleReplica, Tags: patroni.TagState{NoSync: true}},
		{Hostname: "pg3", Role: patroni.RoleReplica},
		{Hostname: "pg4", Role: patroni.RoleReplica},
	}
	plan, err := buildPlan("main", sites, status, "dc1", "dc2")
	require.NoError(t, err)
	require.Equal(t, 0, plan.PreservedSyncCount)
}

func TestBuildPlanRejectsUnknownSites(t *testing.T) {
	status := []patroni.Node{
		{Hostname: "pg1", Role: patroni.RoleLeader},
		{Hostname: "pg2", Role: patroni.RoleReplica},
	}
	_, err := buildPlan("main", twoSiteTopology(), status, "dc1", "dc9")
	var topoErr *topology.TopologyError
	require.True(t, errors.As(err, &topoErr))

	_, err = buildPlan("main", twoSiteTopology(), status, "dc1", "dc1")
	require.True(t, errors.As(err, &topoErr))
}
