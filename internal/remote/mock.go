package remote

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockExecutor is a scriptable in-memory Executor for tests.
// Responses are matched by host and command prefix, in registration order.
type MockExecutor struct {
	mu          sync.Mutex
	responses   map[string][]mockResponse
	Unreachable map[string]bool
	History     []MockCall
}

type MockCall struct {
	Host    string
	Command string
}

type mockResponse struct {
	prefix string
	stdout string
	err    error
	// sequence of outputs for repeated calls, consumed left to right,
	// the last one sticks
	series []string
	calls  int
}

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		responses:   make(map[string][]mockResponse),
		Unreachable: make(map[string]bool),
	}
}

// Respond registers stdout for commands on host starting with prefix
func (m *MockExecutor) Respond(host, prefix, stdout string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[host] = append(m.responses[host], mockResponse{prefix: prefix, stdout: stdout})
}

// RespondSeries registers consecutive outputs for repeated calls
func (m *MockExecutor) RespondSeries(host, prefix string, outputs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[host] = append(m.responses[host], mockResponse{prefix: prefix, series: outputs})
}

// Fail registers an error for commands on host starting with prefix
func (m *MockExecutor) Fail(host, prefix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[host] = append(m.responses[host], mockResponse{prefix: prefix, err: err})
}

func (m *MockExecutor) Run(_ context.Context, host, command string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History = append(m.History, MockCall{Host: host, Command: command})
	if m.Unreachable[host] {
		return "", &ConnectivityError{Host: host, Err: fmt.Errorf("mock: host marked unreachable")}
	}
	for i := range m.responses[host] {
		r := &m.responses[host][i]
		if !strings.HasPrefix(command, r.prefix) {
			continue
		}
		if r.err != nil {
			return "", r.err
		}
		if len(r.series) > 0 {
			idx := r.calls
			if idx >= len(r.series) {
				idx = len(r.series) - 1
			}
			r.calls++
			return r.series[idx], nil
		}
		return r.stdout, nil
	}
	return "", &CommandError{Host: host, Command: command, ExitStatus: 127, Stderr: "mock: no response registered"}
}

// Commands returns all commands executed on host, in order
func (m *MockExecutor) Commands(host string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []string
	for _, c := range m.History {
		if c.Host == host {
			res = append(res, c.Command)
		}
	}
	return res
}

func (m *MockExecutor) Close() error { return nil }

var _ Executor = &MockExecutor{}
