package snmp

import (
	"context"
	"math/rand"
	"time"

	"github.com/imdario/mergo"
)

// SessionOption configures session behaviour for NewSession.
type SessionOption func(*SessionConfig)

// Timeout sets the per-attempt response timeout. Default 5s.
func Timeout(d time.Duration) SessionOption {
	return func(c *SessionConfig) { c.timeout = d }
}

// Retries sets how many times an unanswered request is retransmitted.
// Default 3.
func Retries(n int) SessionOption {
	return func(c *SessionConfig) { c.retries = n }
}

// Network overrides the transport used when target names none explicitly
// (see ParseAddress). Default "udp".
func Network(network string) SessionOption {
	return func(c *SessionConfig) { c.network = network }
}

// Port overrides the default port substituted when target names none
// explicitly. Default 161 (the GET/WALK agent port); callers that dial a
// trap listener instead of an agent set this to 162 (see spec.md §4.4).
func Port(port int) SessionOption {
	return func(c *SessionConfig) { c.port = port }
}

// WithVersion selects the SNMP protocol version. Default V2c.
func WithVersion(v Version) SessionOption {
	return func(c *SessionConfig) { c.version = v }
}

// Community sets the community string. Default "public".
func Community(community string) SessionOption {
	return func(c *SessionConfig) { c.community = community }
}

// LoggingHooks installs a set of trace hooks, merged over NoOpLoggingHooks
// so unset fields never panic.
func LoggingHooks(trace *SessionTrace) SessionOption {
	return func(c *SessionConfig) { c.trace = trace }
}

// WithMIBTable attaches a symbol table that the session hands back from
// Session.Table for callers that resolve or render OIDs; the session's own
// operations (Get, Walk, ...) do not consult it.
func WithMIBTable(t *Table) SessionOption {
	return func(c *SessionConfig) { c.table = t }
}

// SessionConfig holds the resolved configuration for a session.
type SessionConfig struct {
	network   string
	address   string
	port      int
	version   Version
	community string
	timeout   time.Duration
	retries   int
	trace     *SessionTrace
	table     *Table
}

// defaultAgentPort is the GET/GETNEXT/GETBULK/WALK default (spec.md §4.4);
// NewSession callers that dial a trap listener instead override it with
// the Port option (162).
const defaultAgentPort = 161

var defaultConfig = SessionConfig{
	network:   "udp",
	port:      defaultAgentPort,
	community: "public",
	version:   V2c,
	timeout:   5 * time.Second,
	retries:   3,
	trace:     DefaultLoggingHooks,
}

// NewSession resolves target (per ParseAddress's grammar) and returns a
// ready-to-use Session.
func NewSession(ctx context.Context, target string, opts ...SessionOption) (Session, error) {
	config := defaultConfig
	config.address = target
	for _, opt := range opts {
		opt(&config)
	}
	_ = mergo.Merge(config.trace, NoOpLoggingHooks)

	config.trace.ConnectStart(&config)
	start := time.Now()
	conn, err := Dial(ctx, target, config.port, config.network)
	config.trace.ConnectDone(&config, err, time.Since(start))
	if err != nil {
		config.trace.Error("Network Connection", &config, err)
		return nil, err
	}

	return &sessionImpl{
		config:        &config,
		conn:          conn,
		nextRequestID: rand.Int31(), //nolint:gosec
	}, nil
}
