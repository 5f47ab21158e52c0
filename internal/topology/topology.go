package topology

import (
	"fmt"
)

// Site is a named group of database hosts located in one DC.
// Host order is stable across Resolve calls: candidate selection
// depends on it.
type Site struct {
	Name  string
	Hosts []string
}

// Sites is an ordered collection of sites
type Sites []Site

func (s Sites) Find(name string) (Site, bool) {
	for _, site := range s {
		if site.Name == name {
			return site, true
		}
	}
	return Site{}, false
}

// AllHosts returns hosts of all sites, in site order
func (s Sites) AllHosts() []string {
	var hosts []string
	for _, site := range s {
		hosts = append(hosts, site.Hosts...)
	}
	return hosts
}

// Provider resolves cluster id into site -> hosts mapping.
// Several discovery strategies exist in the wild (static config,
// metadata database, zookeeper), so the mapping is pluggable.
type Provider interface {
	Resolve(clusterID string) (Sites, error)
}

// TopologyError means the site mapping is empty or ambiguous
type TopologyError struct {
	Cluster string
	Reason  string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("bad topology for cluster %q: %s", e.Cluster, e.Reason)
}
