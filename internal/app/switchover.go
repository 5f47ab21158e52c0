package app

import (
	"context"
	"fmt"

	"github.com/clustertools/dcswitch/internal/patroni"
	"github.com/clustertools/dcswitch/internal/topology"
	"github.com/clustertools/dcswitch/internal/util"
)

// Phase names the steps of the switchover state machine
type Phase string

const (
	PhasePreflight       Phase = "PREFLIGHT"
	PhasePrepTarget      Phase = "PREP_TARGET"
	PhasePrepSource      Phase = "PREP_SOURCE"
	PhaseElect           Phase = "ELECT"
	PhaseDemoteOldLeader Phase = "DEMOTE_OLD_LEADER"
	PhaseRebalanceSync   Phase = "REBALANCE_SYNC"
	PhaseFinalizeSource  Phase = "FINALIZE_SOURCE"
)

// PhaseError records at which phase (and on which node) the run aborted.
// Mutations already applied stay in place: there is no automatic rollback,
// an operator reconciles manually from this record.
type PhaseError struct {
	Phase Phase
	Node  string
	Err   error
}

func (e *PhaseError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("switchover aborted at phase %s (node %s): %v", e.Phase, e.Node, e.Err)
	}
	return fmt.Sprintf("switchover aborted at phase %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// SwitchoverPlan is computed once from the pre-run topology snapshot
// and held immutable for the rest of the run. PreservedSyncCount is
// taken from the pre-migration tags, not from a topology already
// mutated by earlier phases.
type SwitchoverPlan struct {
	SourceSite         topology.Site
	TargetSite         topology.Site
	CurrentLeader      string
	CandidateLeader    string
	PreservedSyncCount int
}

// buildPlan validates the requested migration against live status and
// computes the immutable plan. Candidate selection is deterministic:
// the first target-site node in stable iteration order.
func buildPlan(cluster string, sites topology.Sites, status []patroni.Node, sourceSite, targetSite string) (*SwitchoverPlan, error) {
	source, ok := sites.Find(sourceSite)
	if !ok {
		return nil, &topology.TopologyError{Cluster: cluster, Reason: "unknown source site " + sourceSite}
	}
	target, ok := sites.Find(targetSite)
	if !ok {
		return nil, &topology.TopologyError{Cluster: cluster, Reason: "unknown target site " + targetSite}
	}
	if source.Name == target.Name {
		return nil, &topology.TopologyError{Cluster: cluster, Reason: "source and target site are the same"}
	}
	leader, ok := patroni.Leader(status)
	if !ok {
		return nil, &patroni.StatusParseError{Reason: "no leader found"}
	}
	if !util.ContainsString(source.Hosts, leader.Hostname) {
		return nil, &topology.TopologyError{
			Cluster: cluster,
			Reason:  fmt.Sprintf("current leader %s does not belong to source site %s", leader.Hostname, source.Name),
		}
	}
	preserved := 0
	for _, host := range source.Hosts {
		if host == leader.Hostname {
			continue
		}
		node, ok := patroni.FindNode(status, host)
		if !ok {
			return nil, &patroni.StatusParseError{Reason: "host " + host + " is missing from cluster status"}
		}
		if !node.Tags.NoSync {
			preserved++
		}
	}
	return &SwitchoverPlan{
		SourceSite:         source,
		TargetSite:         target,
		CurrentLeader:      leader.Hostname,
		CandidateLeader:    target.Hosts[0],
		PreservedSyncCount: preserved,
	}, nil
}

// runSwitchover executes the six-phase migration protocol. Phases run
// strictly in order, one node at a time: tag flips are never applied in
// parallel because a window with zero or multiple election-eligible
// nodes risks split-brain. Every phase exit is gated on cluster
// stability. The first failure is terminal.
func (app *App) runSwitchover(ctx context.Context, sourceSite, targetSite string) error {
	status, err := app.controller.ReadStatus(ctx)
	if err != nil {
		return &PhaseError{Phase: PhasePreflight, Err: err}
	}
	plan, err := buildPlan(app.config.Patroni.ClusterName, app.sites, status, sourceSite, targetSite)
	if err != nil {
		return &PhaseError{Phase: PhasePreflight, Err: err}
	}
	app.logger.Infof("switchover: plan: leader %s (%s) -> candidate %s (%s), preserved sync count %d",
		plan.CurrentLeader, plan.SourceSite.Name, plan.CandidateLeader, plan.TargetSite.Name, plan.PreservedSyncCount)

	phases := []struct {
		name Phase
		run  func(context.Context, *SwitchoverPlan) error
	}{
		{PhasePreflight, app.phasePreflight},
		{PhasePrepTarget, app.phasePrepTarget},
		{PhasePrepSource, app.phasePrepSource},
		{PhaseElect, app.phaseElect},
		{PhaseDemoteOldLeader, app.phaseDemoteOldLeader},
		{PhaseRebalanceSync, app.phaseRebalanceSync},
		{PhaseFinalizeSource, app.phaseFinalizeSource},
	}
	completed := make([]Phase, 0, len(phases))
	for _, phase := range phases {
		app.logger.Infof("switchover: phase %s started", phase.name)
		if err := phase.run(ctx, plan); err != nil {
			app.logger.Errorf("switchover: phase %s failed: %v", phase.name, err)
			app.logger.Errorf("switchover: completed phases: %v, manual reconciliation required", completed)
			return err
		}
		completed = append(completed, phase.name)
		app.logger.Infof("switchover: phase %s done", phase.name)
	}
	return app.confirmEndState(ctx, plan)
}

// phasePreflight verifies reachability of every node slated for
// mutation before anything is mutated. This is the only all-or-nothing
// guarantee the system gives: one unreachable node aborts the run with
// no state changed.
func (app *App) phasePreflight(ctx context.Context, plan *SwitchoverPlan) error {
	hosts := util.Union(plan.TargetSite.Hosts, plan.SourceSite.Hosts)
	for _, host := range hosts {
		if err := app.controller.Ping(ctx, host); err != nil {
			return &PhaseError{Phase: PhasePreflight, Node: host, Err: err}
		}
	}
	app.logger.Infof("switchover: all %d nodes are reachable", len(hosts))
	return nil
}

// phasePrepTarget makes every target-site node eligible for election.
// Sync eligibility is granted only when there is sync membership to
// preserve; with a zero preserved count the target nodes go straight
// to nosync=true and REBALANCE_SYNC has nothing to do.
func (app *App) phasePrepTarget(ctx context.Context, plan *SwitchoverPlan) error {
	tags := patroni.TagState{NoFailover: false, NoSync: plan.PreservedSyncCount == 0}
	for _, host := range plan.TargetSite.Hosts {
		if err := app.controller.ApplyTags(ctx, host, tags); err != nil {
			return &PhaseError{Phase: PhasePrepTarget, Node: host, Err: err}
		}
	}
	return app.waitStable(ctx, PhasePrepTarget)
}

// phasePrepSource excludes every non-leader source node from election
// and sync membership. The current leader keeps its tags so service
// continues until the hand-off.
func (app *App) phasePrepSource(ctx context.Context, plan *SwitchoverPlan) error {
	for _, host := range plan.SourceSite.Hosts {
		if host == plan.CurrentLeader {
			continue
		}
		if err := app.controller.ApplyTags(ctx, host, patroni.TagState{NoFailover: true, NoSync: true}); err != nil {
			return &PhaseError{Phase: PhasePrepSource, Node: host, Err: err}
		}
	}
	return app.waitStable(ctx, PhasePrepSource)
}

// phaseElect hands leadership to the candidate and verifies the
// cluster converged on it
func (app *App) phaseElect(ctx context.Context, plan *SwitchoverPlan) error {
	if err := app.controller.Ping(ctx, plan.CandidateLeader); err != nil {
		return &PhaseError{Phase: PhaseElect, Node: plan.CandidateLeader, Err: err}
	}
	if err := app.controller.TransferLeadership(ctx, plan.CurrentLeader, plan.CandidateLeader); err != nil {
		return &PhaseError{Phase: PhaseElect, Node: plan.CandidateLeader, Err: err}
	}
	if err := app.waitStable(ctx, PhaseElect); err != nil {
		return err
	}
	status, err := app.controller.ReadStatus(ctx)
	if err != nil {
		return &PhaseError{Phase: PhaseElect, Err: err}
	}
	leader, _ := patroni.Leader(status)
	if leader.Hostname != plan.CandidateLeader {
		return &PhaseError{
			Phase: PhaseElect,
			Node:  plan.CandidateLeader,
			Err: &patroni.ElectionCommandError{
				Leader:    plan.CurrentLeader,
				Candidate: plan.CandidateLeader,
				Err:       fmt.Errorf("leader is %s after election", leader.Hostname),
			},
		}
	}
	app.logger.Infof("switchover: %s is the new leader", leader.Hostname)
	return nil
}

func (app *App) phaseDemoteOldLeader(ctx context.Context, plan *SwitchoverPlan) error {
	err := app.controller.ApplyTags(ctx, plan.CurrentLeader, patroni.TagState{NoFailover: true, NoSync: true})
	if err != nil {
		return &PhaseError{Phase: PhaseDemoteOldLeader, Node: plan.CurrentLeader, Err: err}
	}
	return app.waitStable(ctx, PhaseDemoteOldLeader)
}

// phaseRebalanceSync carries the pre-migration synchronous-replication
// factor over to the target site: the first PreservedSyncCount
// non-leader target nodes stay sync-eligible, the rest of the site
// (new leader included) drops out of sync membership.
func (app *App) phaseRebalanceSync(ctx context.Context, plan *SwitchoverPlan) error {
	if plan.PreservedSyncCount == 0 {
		app.logger.Info("switchover: no sync membership to preserve, skipping rebalance")
		return nil
	}
	assigned := 0
	for _, host := range plan.TargetSite.Hosts {
		tags := patroni.TagState{NoFailover: false, NoSync: true}
		if host != plan.CandidateLeader && assigned < plan.PreservedSyncCount {
			tags.NoSync = false
			assigned++
		}
		if err := app.controller.ApplyTags(ctx, host, tags); err != nil {
			return &PhaseError{Phase: PhaseRebalanceSync, Node: host, Err: err}
		}
	}
	return app.waitStable(ctx, PhaseRebalanceSync)
}

// phaseFinalizeSource fully demotes the source site
func (app *App) phaseFinalizeSource(ctx context.Context, plan *SwitchoverPlan) error {
	for _, host := range plan.SourceSite.Hosts {
		if err := app.controller.ApplyTags(ctx, host, patroni.TagState{NoFailover: true, NoSync: true}); err != nil {
			return &PhaseError{Phase: PhaseFinalizeSource, Node: host, Err: err}
		}
	}
	return app.waitStable(ctx, PhaseFinalizeSource)
}

func (app *App) waitStable(ctx context.Context, phase Phase) error {
	if err := app.monitor.Wait(ctx); err != nil {
		return &PhaseError{Phase: phase, Err: err}
	}
	return nil
}

// confirmEndState re-reads live status and checks the migration
// invariants: exactly one leader, and it belongs to the target site
func (app *App) confirmEndState(ctx context.Context, plan *SwitchoverPlan) error {
	status, err := app.controller.ReadStatus(ctx)
	if err != nil {
		return &PhaseError{Phase: PhaseFinalizeSource, Err: err}
	}
	leaders := 0
	for _, node := range status {
		if node.Role == patroni.RoleLeader {
			leaders++
		}
	}
	if leaders != 1 {
		return &PhaseError{
			Phase: PhaseFinalizeSource,
			Err:   &patroni.StatusParseError{Reason: fmt.Sprintf("%d leaders found after migration", leaders)},
		}
	}
	leader, _ := patroni.Leader(status)
	if !util.ContainsString(plan.TargetSite.Hosts, leader.Hostname) {
		return &PhaseError{
			Phase: PhaseFinalizeSource,
			Err:   fmt.Errorf("leader %s is outside target site %s after migration", leader.Hostname, plan.TargetSite.Name),
		}
	}
	app.logger.Infof("switchover: done, leader %s is in site %s", leader.Hostname, plan.TargetSite.Name)
	return nil
}
