package util

import (
	"os"
	"slices"

	"github.com/shirou/gopsutil/v3/process"
)

var notInformativeUsernames = []string{"root", "postgres"}

// GuessWhoRunning walks up the process tree looking for a real username,
// skipping service accounts. Used only for the audit log.
func GuessWhoRunning() string {
	pid := os.Getppid()

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}

	for i := 0; i < 50; i++ {
		if p == nil {
			return "unknown"
		}

		p, err = p.Parent()
		if err != nil {
			return "unknown"
		}

		// Known issue: static builds (CGO_ENABLED=0) may break
		// user.LookupId() for LDAP/NIS users
		username, err := p.Username()
		if err != nil {
			return ""
		}
		if !slices.Contains(notInformativeUsernames, username) {
			return username
		}
	}
	return "unknown"
}
