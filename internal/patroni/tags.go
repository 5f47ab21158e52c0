package patroni

import (
	"context"

	"gopkg.in/yaml.v2"
)

type agentConfig struct {
	Tags TagState `yaml:"tags"`
}

// ApplyTags mutates the node's persisted eligibility tags, restarts its
// HA agent and verifies the values came into effect. Steps run strictly
// in order; the first failure aborts the call. The agent is offline for
// a short interval during restart, which is single-node unavailability,
// not a cluster outage.
func (c *Controller) ApplyTags(ctx context.Context, host string, tags TagState) error {
	c.logger.Infof("tags: applying {%s} to %s", tags, host)
	args := c.commandArgs()

	args["value"] = boolStr(tags.NoFailover)
	if _, err := c.exec.Run(ctx, host, mogrifyCommand(c.getCommand(commandSetNoFailover), args)); err != nil {
		return &TagUpdateError{Host: host, Err: err}
	}
	args["value"] = boolStr(tags.NoSync)
	if _, err := c.exec.Run(ctx, host, mogrifyCommand(c.getCommand(commandSetNoSync), args)); err != nil {
		return &TagUpdateError{Host: host, Err: err}
	}

	if _, err := c.exec.Run(ctx, host, mogrifyCommand(c.getCommand(commandRestartAgent), c.commandArgs())); err != nil {
		return &ServiceRestartError{Host: host, Err: err}
	}

	got, err := c.readTags(ctx, host)
	if err != nil {
		return &VerificationError{Host: host, Err: err}
	}
	if got != tags {
		return &VerificationError{Host: host, Want: tags, Got: got}
	}
	c.logger.Infof("tags: verified {%s} on %s", tags, host)
	return nil
}

// readTags reads tags back from the node's persisted configuration,
// independently from cluster status
func (c *Controller) readTags(ctx context.Context, host string) (TagState, error) {
	out, err := c.exec.Run(ctx, host, mogrifyCommand(c.getCommand(commandGetConfig), c.commandArgs()))
	if err != nil {
		return TagState{}, err
	}
	var cfg agentConfig
	if err = yaml.Unmarshal([]byte(out), &cfg); err != nil {
		return TagState{}, err
	}
	return cfg.Tags, nil
}

// TransferLeadership invokes the external leadership-transfer command,
// naming the current leader and the candidate. The command runs on the
// candidate host, which the caller has verified to be reachable.
func (c *Controller) TransferLeadership(ctx context.Context, leader, candidate string) error {
	args := c.commandArgs()
	args["leader"] = leader
	args["candidate"] = candidate
	command := mogrifyCommand(c.getCommand(commandSwitchover), args)
	c.logger.Infof("election: transferring leadership from %s to %s", leader, candidate)
	if _, err := c.exec.Run(ctx, candidate, command); err != nil {
		return &ElectionCommandError{Leader: leader, Candidate: candidate, Err: err}
	}
	return nil
}
