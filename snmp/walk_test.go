package snmp

import (
	"context"
	"net"
	"testing"

	assert "github.com/stretchr/testify/require"
)

// scriptedVarbind is one entry in a fake agent's fixed MIB content, used to
// answer GetNext/GetBulk/Get requests during a walk.
type scriptedVarbind struct {
	oid   OID
	value Value
}

// runScriptedAgent answers every request on agent by returning the first
// scripted varbind whose OID is strictly greater than the requested OID
// (GetNext semantics) or, for Get, the exact match. It exits once the test
// closes the connection.
func runScriptedAgent(t *testing.T, agent net.Conn, content []scriptedVarbind) {
	input := make([]byte, maxInputBufferSize)
	for {
		n, err := agent.Read(input)
		if err != nil {
			return
		}
		version, community, req, err := DecodeMessage(input[:n])
		assert.NoError(t, err)

		var vb Varbind
		requested := req.Varbinds[0].Name
		switch req.Type {
		case GetRequest:
			found := false
			for _, c := range content {
				if c.oid.Equal(requested) {
					vb = Varbind{Name: c.oid, Value: c.value}
					found = true
					break
				}
			}
			if !found {
				vb = Varbind{Name: requested, Value: exceptionValue(TypeNoSuchObject)}
			}
		default: // GetNextRequest / GetBulkRequest (single repetition in these tests)
			found := false
			for _, c := range content {
				if requested.Compare(c.oid) == Less {
					vb = Varbind{Name: c.oid, Value: c.value}
					found = true
					break
				}
			}
			if !found {
				vb = Varbind{Name: requested, Value: exceptionValue(TypeEndOfMibView)}
			}
		}

		resp := &PDU{Type: GetResponse, RequestID: req.RequestID, Varbinds: []Varbind{vb}}
		b, err := EncodeMessage(version, community, resp)
		assert.NoError(t, err)
		if _, err := agent.Write(b); err != nil {
			return
		}
	}
}

func newWalkTestSession(t *testing.T, content []scriptedVarbind) (*sessionImpl, func()) {
	client, agent := net.Pipe()
	go runScriptedAgent(t, agent, content)
	s := newTestSession(client)
	return s, func() { client.Close(); agent.Close() }
}

func TestWalkEnumeratesSubtreeInOrder(t *testing.T) {
	root := OID{1, 3, 6, 1, 2, 1, 1}
	content := []scriptedVarbind{
		{OID{1, 3, 6, 1, 2, 1, 1, 1, 0}, NewOctetString([]byte("descr"))},
		{OID{1, 3, 6, 1, 2, 1, 1, 3, 0}, NewTimeTicks(100)},
		{OID{1, 3, 6, 1, 2, 1, 2, 1, 0}, NewInteger(1)}, // outside root's subtree
	}

	s, cleanup := newWalkTestSession(t, content)
	defer cleanup()

	var got []OID
	err := s.Walk(context.Background(), root, DefaultWalkOptions(), func(vb *Varbind) error {
		got = append(got, vb.Name)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []OID{content[0].oid, content[1].oid}, got)
}

func TestWalkFallbackOnEmptyIssuesGet(t *testing.T) {
	root := OID{1, 3, 6, 1, 2, 1, 1, 1, 0}
	content := []scriptedVarbind{
		{root, NewOctetString([]byte("only this"))},
	}

	s, cleanup := newWalkTestSession(t, content)
	defer cleanup()

	var got []OID
	opts := DefaultWalkOptions()
	err := s.Walk(context.Background(), root, opts, func(vb *Varbind) error {
		got = append(got, vb.Name)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []OID{root}, got)
}

func TestWalkStopsAtEndOID(t *testing.T) {
	root := OID{1, 3, 6, 1, 2, 1, 1}
	content := []scriptedVarbind{
		{OID{1, 3, 6, 1, 2, 1, 1, 1, 0}, NewInteger(1)},
		{OID{1, 3, 6, 1, 2, 1, 1, 2, 0}, NewInteger(2)},
		{OID{1, 3, 6, 1, 2, 1, 1, 3, 0}, NewInteger(3)},
	}

	s, cleanup := newWalkTestSession(t, content)
	defer cleanup()

	opts := DefaultWalkOptions()
	opts.End = OID{1, 3, 6, 1, 2, 1, 1, 2, 0}

	var got []OID
	err := s.Walk(context.Background(), root, opts, func(vb *Varbind) error {
		got = append(got, vb.Name)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []OID{content[0].oid}, got)
}

func TestWalkIncludeStart(t *testing.T) {
	root := OID{1, 3, 6, 1, 2, 1, 1, 1, 0}
	content := []scriptedVarbind{
		{root, NewOctetString([]byte("start"))},
		{OID{1, 3, 6, 1, 2, 1, 1, 2, 0}, NewInteger(2)},
	}

	s, cleanup := newWalkTestSession(t, content)
	defer cleanup()

	opts := DefaultWalkOptions()
	opts.IncludeStart = true

	var got []OID
	err := s.Walk(context.Background(), root, opts, func(vb *Varbind) error {
		got = append(got, vb.Name)
		return nil
	})
	assert.NoError(t, err)
	// content[1] is a sibling of root, not under it, so the walk stops there.
	assert.Equal(t, []OID{root}, got)
}
