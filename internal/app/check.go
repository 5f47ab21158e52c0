package app

import (
	"context"
	"fmt"

	"github.com/clustertools/dcswitch/internal/patroni"
	"github.com/clustertools/dcswitch/internal/util"
)

// HealthCheck is a single read-only verification result
type HealthCheck struct {
	Name    string `yaml:"name"`
	Target  string `yaml:"target,omitempty"`
	Ok      bool   `yaml:"ok"`
	Details string `yaml:"details,omitempty"`
}

// HealthReport aggregates the checks of a simulated run
type HealthReport struct {
	Ok     bool          `yaml:"ok"`
	Checks []HealthCheck `yaml:"checks"`
}

func (r *HealthReport) add(name, target string, ok bool, details string) {
	r.Checks = append(r.Checks, HealthCheck{Name: name, Target: target, Ok: ok, Details: details})
	if !ok {
		r.Ok = false
	}
}

// Simulate performs discovery, reachability and role/lag checks for the
// requested migration without mutating anything. It reports pass/fail
// per check; tags are never altered.
func (app *App) Simulate(ctx context.Context, sourceSite, targetSite string) *HealthReport {
	report := &HealthReport{Ok: true}

	source, sourceOk := app.sites.Find(sourceSite)
	report.add("source site resolved", sourceSite, sourceOk, siteDetails(source.Hosts, sourceOk))
	target, targetOk := app.sites.Find(targetSite)
	report.add("target site resolved", targetSite, targetOk, siteDetails(target.Hosts, targetOk))
	if !sourceOk || !targetOk {
		return report
	}

	for _, host := range util.Union(source.Hosts, target.Hosts) {
		err := app.controller.Ping(ctx, host)
		report.add("node reachable", host, err == nil, errDetails(err))
	}

	status, err := app.controller.ReadStatus(ctx)
	report.add("cluster status readable", "", err == nil, errDetails(err))
	if err != nil {
		return report
	}

	leaders := 0
	for _, node := range status {
		if node.Role == patroni.RoleLeader {
			leaders++
		}
	}
	report.add("exactly one leader", "", leaders == 1, fmt.Sprintf("%d leader(s) found", leaders))

	leader, ok := patroni.Leader(status)
	if ok {
		inSource := util.ContainsString(source.Hosts, leader.Hostname)
		report.add("leader in source site", leader.Hostname, inSource, "")
	}

	for _, node := range status {
		if node.Role == patroni.RoleLeader {
			continue
		}
		ok := node.Lag != patroni.LagUnknown && node.Lag <= app.config.MaxAcceptableLag
		report.add("replication lag acceptable", node.Hostname,
			ok, fmt.Sprintf("lag %.1f, max acceptable %.1f", node.Lag, app.config.MaxAcceptableLag))
	}

	candidate := target.Hosts[0]
	candStatus, found := patroni.FindNode(status, candidate)
	report.add("candidate present in cluster", candidate, found, "")
	if found {
		report.add("candidate is not excluded from election", candidate,
			!candStatus.Tags.NoFailover, "")
	}

	return report
}

func siteDetails(hosts []string, ok bool) string {
	if !ok {
		return "site is not present in topology"
	}
	return fmt.Sprintf("%d host(s)", len(hosts))
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
