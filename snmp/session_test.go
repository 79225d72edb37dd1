package snmp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/imdario/mergo"
	assert "github.com/stretchr/testify/require"
)

func newTestSession(conn net.Conn, opts ...SessionOption) *sessionImpl {
	trace := *NoOpLoggingHooks
	config := defaultConfig
	config.trace = &trace
	config.timeout = 200 * time.Millisecond
	config.retries = 2
	for _, opt := range opts {
		opt(&config)
	}
	_ = mergo.Merge(config.trace, NoOpLoggingHooks)
	return &sessionImpl{conn: conn, config: &config, nextRequestID: 1}
}

// drainAndRespond reads one request off agent and writes back a
// GetResponse echoing its varbinds, simulating a well-behaved agent.
func drainAndRespond(t *testing.T, agent net.Conn) {
	input := make([]byte, maxInputBufferSize)
	n, err := agent.Read(input)
	assert.NoError(t, err)

	version, community, req, err := DecodeMessage(input[:n])
	assert.NoError(t, err)

	resp := &PDU{Type: GetResponse, RequestID: req.RequestID, Varbinds: req.Varbinds}
	b, err := EncodeMessage(version, community, resp)
	assert.NoError(t, err)
	_, err = agent.Write(b)
	assert.NoError(t, err)
}

func TestSessionGetSuccess(t *testing.T) {
	client, agent := net.Pipe()
	defer client.Close()
	defer agent.Close()

	s := newTestSession(client)

	go drainAndRespond(t, agent)

	resp, err := s.Get(context.Background(), []OID{{1, 3, 6, 1, 2, 1, 1, 5, 0}})
	assert.NoError(t, err)
	assert.Equal(t, GetResponse, resp.Type)
	assert.Len(t, resp.Varbinds, 1)
}

func TestSessionDiscardsMismatchedRequestID(t *testing.T) {
	client, agent := net.Pipe()
	defer client.Close()
	defer agent.Close()

	s := newTestSession(client)

	go func() {
		input := make([]byte, maxInputBufferSize)
		n, err := agent.Read(input)
		assert.NoError(t, err)
		_, _, req, err := DecodeMessage(input[:n])
		assert.NoError(t, err)

		// Stale response from an earlier request: wrong request-id.
		stale := &PDU{Type: GetResponse, RequestID: req.RequestID + 99, Varbinds: req.Varbinds}
		b, err := EncodeMessage(V2c, "public", stale)
		assert.NoError(t, err)
		_, err = agent.Write(b)
		assert.NoError(t, err)

		// Now the real answer.
		resp := &PDU{Type: GetResponse, RequestID: req.RequestID, Varbinds: req.Varbinds}
		b, err = EncodeMessage(V2c, "public", resp)
		assert.NoError(t, err)
		_, err = agent.Write(b)
		assert.NoError(t, err)
	}()

	resp, err := s.Get(context.Background(), []OID{{1, 3, 6, 1, 2, 1, 1, 5, 0}})
	assert.NoError(t, err)
	assert.Equal(t, GetResponse, resp.Type)
}

func TestSessionTimeoutExhaustsRetries(t *testing.T) {
	client, agent := net.Pipe()
	defer client.Close()
	defer agent.Close()

	s := newTestSession(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		input := make([]byte, maxInputBufferSize)
		for {
			if _, err := agent.Read(input); err != nil {
				return
			}
		}
	}()

	_, err := s.Get(context.Background(), []OID{{1, 3, 6, 1, 2, 1, 1, 5, 0}})
	assert.ErrorIs(t, err, ErrTimeout)

	agent.Close()
	<-done
}

func TestSessionGetBulkRejectsV1(t *testing.T) {
	client, agent := net.Pipe()
	defer client.Close()
	defer agent.Close()

	s := newTestSession(client, WithVersion(V1))
	_, err := s.GetBulk(context.Background(), []OID{{1, 3, 6, 1}}, 0, 10)
	assert.ErrorIs(t, err, ErrVersion)
}

func TestSessionGetBulkRejectsTooManyNonRepeaters(t *testing.T) {
	client, agent := net.Pipe()
	defer client.Close()
	defer agent.Close()

	s := newTestSession(client)
	_, err := s.GetBulk(context.Background(), []OID{{1, 3, 6, 1}}, 5, 10)
	assert.ErrorIs(t, err, ErrArgument)
}
