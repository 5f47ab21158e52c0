package topology

import (
	"sort"
)

// StaticProvider serves the site mapping from the config file.
// Site order is sorted by name, host order is kept as configured.
type StaticProvider struct {
	sites map[string][]string
}

func NewStaticProvider(sites map[string][]string) *StaticProvider {
	return &StaticProvider{sites: sites}
}

func (p *StaticProvider) Resolve(clusterID string) (Sites, error) {
	if len(p.sites) == 0 {
		return nil, &TopologyError{Cluster: clusterID, Reason: "no sites configured"}
	}
	names := make([]string, 0, len(p.sites))
	for name := range p.sites {
		names = append(names, name)
	}
	sort.Strings(names)
	res := make(Sites, 0, len(names))
	for _, name := range names {
		hosts := p.sites[name]
		if len(hosts) == 0 {
			return nil, &TopologyError{Cluster: clusterID, Reason: "site " + name + " has no hosts"}
		}
		res = append(res, Site{Name: name, Hosts: append([]string(nil), hosts...)})
	}
	return res, nil
}

var _ Provider = &StaticProvider{}
