package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/clustertools/dcswitch/internal/config"
	"github.com/clustertools/dcswitch/internal/log"
	"github.com/clustertools/dcswitch/internal/util"
)

// SSHExecutor runs commands over SSH, keeping one lazily-dialed
// client per host. Sessions are created per command.
type SSHExecutor struct {
	config  *config.SSHConfig
	logger  *log.Logger
	auth    ssh.AuthMethod
	hostKey ssh.HostKeyCallback
	mu      sync.Mutex
	clients map[string]*ssh.Client
}

func NewSSHExecutor(cfg *config.SSHConfig, logger *log.Logger) (*SSHExecutor, error) {
	key, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key %s: %w", cfg.KeyFile, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh key %s: %w", cfg.KeyFile, err)
	}
	hostKey := ssh.InsecureIgnoreHostKey() // nolint: gosec
	if cfg.KnownHostsFile != "" {
		hostKey, err = knownhosts.New(cfg.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts %s: %w", cfg.KnownHostsFile, err)
		}
	}
	return &SSHExecutor{
		config:  cfg,
		logger:  logger,
		auth:    ssh.PublicKeys(signer),
		hostKey: hostKey,
		clients: make(map[string]*ssh.Client),
	}, nil
}

func (e *SSHExecutor) client(host string) (*ssh.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if client, ok := e.clients[host]; ok {
		return client, nil
	}
	clientConfig := &ssh.ClientConfig{
		User:            e.config.User,
		Auth:            []ssh.AuthMethod{e.auth},
		HostKeyCallback: e.hostKey,
		Timeout:         e.config.DialTimeout,
	}
	addr := util.JoinHostPort(host, e.config.Port)
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, err
	}
	e.clients[host] = client
	return client, nil
}

func (e *SSHExecutor) dropClient(host string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if client, ok := e.clients[host]; ok {
		_ = client.Close()
		delete(e.clients, host)
	}
}

// Run executes command on host and returns trimmed stdout
func (e *SSHExecutor) Run(ctx context.Context, host, command string) (string, error) {
	client, err := e.client(host)
	if err != nil {
		return "", &ConnectivityError{Host: host, Err: err}
	}
	session, err := client.NewSession()
	if err != nil {
		// connection may have gone stale since the last command
		e.dropClient(host)
		return "", &ConnectivityError{Host: host, Err: err}
	}
	defer func() { _ = session.Close() }()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	e.logger.Debugf("remote: running %q on %s", command, host)

	runCtx := ctx
	if e.config.CommandTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.config.CommandTimeout)
		defer cancel()
	}
	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()
	select {
	case err = <-done:
	case <-runCtx.Done():
		_ = session.Signal(ssh.SIGKILL)
		e.dropClient(host)
		return "", &ConnectivityError{Host: host, Err: runCtx.Err()}
	}
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &CommandError{
				Host:       host,
				Command:    command,
				ExitStatus: exitErr.ExitStatus(),
				Stderr:     strings.TrimSpace(stderr.String()),
			}
		}
		e.dropClient(host)
		return "", &ConnectivityError{Host: host, Err: err}
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

func (e *SSHExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for host, client := range e.clients {
		_ = client.Close()
		delete(e.clients, host)
	}
	return nil
}

var _ Executor = &SSHExecutor{}
