package patroni

import (
	"strings"
)

// Role is the replication role a node reports in cluster status
type Role string

const (
	RoleLeader      Role = "Leader"
	RoleSyncStandby Role = "Sync Standby"
	RoleReplica     Role = "Replica"
	RoleUnknown     Role = "Unknown"
)

// classifyRole maps free-form role text to a Role.
// Precedence: Leader wins over Sync Standby wins over Replica.
func classifyRole(text string) Role {
	switch {
	case strings.Contains(text, "Leader"):
		return RoleLeader
	case strings.Contains(text, "Sync Standby"):
		return RoleSyncStandby
	case strings.Contains(text, "Replica"):
		return RoleReplica
	default:
		return RoleUnknown
	}
}

// TagState holds the per-node eligibility flags persisted in the
// node's Patroni configuration
type TagState struct {
	NoFailover bool `yaml:"nofailover"`
	NoSync     bool `yaml:"nosync"`
}

func (t TagState) String() string {
	return "nofailover: " + boolStr(t.NoFailover) + ", nosync: " + boolStr(t.NoSync)
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// LagUnknown marks replication lag that could not be determined
const LagUnknown = -1.0

// Node is a single row of cluster status.
// Records are ephemeral and rebuilt on every status read.
type Node struct {
	Hostname string
	Role     Role
	State    string
	Lag      float64
	Tags     TagState
}

var transientStates = map[string]bool{
	"starting":   true,
	"stopping":   true,
	"initiating": true,
}

// IsTransient reports whether the node's HA agent is between stable states
func (n Node) IsTransient() bool {
	return transientStates[strings.ToLower(n.State)]
}

// Leader returns the leader row of a status snapshot
func Leader(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if n.Role == RoleLeader {
			return n, true
		}
	}
	return Node{}, false
}

// FindNode returns the status row for the given hostname
func FindNode(nodes []Node, hostname string) (Node, bool) {
	for _, n := range nodes {
		if n.Hostname == hostname {
			return n, true
		}
	}
	return Node{}, false
}
