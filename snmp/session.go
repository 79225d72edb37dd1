package snmp

import (
	"context"
	"math"
	"net"
	"time"

	"github.com/pkg/errors"
)

// Session provides request/response access to a single SNMP agent: Get,
// GetNext, GetBulk (v2c only), subtree Walk, and fire-and-forget Trap.
// Request processing follows RFC 1905 §4.2.
type Session interface {
	// Get issues a GetRequest for oids.
	Get(ctx context.Context, oids []OID) (*PDU, error)

	// GetNext issues a GetNextRequest for oids.
	GetNext(ctx context.Context, oids []OID) (*PDU, error)

	// GetBulk issues a GetBulkRequest for oids, returning ErrVersion on a v1
	// session and ErrArgument if nonRepeaters or maxRepetitions is negative
	// or nonRepeaters exceeds len(oids).
	GetBulk(ctx context.Context, oids []OID, nonRepeaters, maxRepetitions int) (*PDU, error)

	// Walk enumerates root's subtree, invoking fn for every varbind in
	// ascending OID order. See walk.go for WalkOptions.
	Walk(ctx context.Context, root OID, opts WalkOptions, fn Walker) error

	// Trap sends a fire-and-forget SNMPv2-Trap-PDU, prepending the
	// sysUpTime.0 and snmpTrapOID.0 varbinds required by RFC 3416 §4.2.6.
	Trap(ctx context.Context, uptime uint32, trapOID OID, varbinds []Varbind) error

	// Close releases the underlying connection.
	Close() error

	// Table returns the MIB symbol table attached via WithMIBTable, or nil
	// if none was configured.
	Table() *Table
}

type sessionImpl struct {
	conn          net.Conn
	config        *SessionConfig
	nextRequestID int32
}

const maxInputBufferSize = 65535

func (s *sessionImpl) Get(ctx context.Context, oids []OID) (*PDU, error) {
	return s.execute(ctx, GetRequest, oids, 0, 0)
}

func (s *sessionImpl) GetNext(ctx context.Context, oids []OID) (*PDU, error) {
	return s.execute(ctx, GetNextRequest, oids, 0, 0)
}

func (s *sessionImpl) GetBulk(ctx context.Context, oids []OID, nonRepeaters, maxRepetitions int) (*PDU, error) {
	if s.config.version == V1 {
		return nil, errors.Wrap(ErrVersion, "Cannot send V2 PDU on V1 session")
	}
	if nonRepeaters < 0 || maxRepetitions < 0 {
		return nil, errors.Wrap(ErrArgument, "non-repeaters and max-repetitions must be non-negative")
	}
	if nonRepeaters > len(oids) {
		return nil, errors.Wrap(ErrArgument, "non-repeaters exceeds number of requested OIDs")
	}
	return s.execute(ctx, GetBulkRequest, oids, nonRepeaters, maxRepetitions)
}

// execute builds and sends a request PDU, retrying on timeout up to
// config.retries times. Within a single attempt's timeout window, frames
// whose request-id, version, or community do not match the outstanding
// request are discarded and reading continues rather than triggering an
// immediate retransmit, per spec.md §4.5.
func (s *sessionImpl) execute(ctx context.Context, t PDUType, oids []OID, nonRepeaters, maxRepetitions int) (*PDU, error) {
	reqID := s.nextID()
	pdu := &PDU{Type: t, RequestID: reqID, Varbinds: buildVarbinds(oids)}
	if t == GetBulkRequest {
		pdu.Error = ErrorStatus(nonRepeaters)
		pdu.ErrorIndex = int32(maxRepetitions)
	}

	b, err := EncodeMessage(s.config.version, s.config.community, pdu)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		deadline, cancel := context.WithTimeout(ctx, s.config.timeout)
		dl, _ := deadline.Deadline()
		cancel()
		if err := s.conn.SetDeadline(dl); err != nil {
			return nil, err
		}

		writeStart := time.Now()
		n, werr := s.conn.Write(b)
		s.config.trace.WriteDone(s.config, b[:n], werr, time.Since(writeStart))
		if werr != nil {
			return nil, werr
		}

		respPDU, err := s.readMatching(reqID)
		if err == nil {
			return respPDU, nil
		}
		if !isTimeout(err) {
			return nil, err
		}
		if attempt >= s.config.retries {
			return nil, errors.Wrap(ErrTimeout, "no response matching request-id")
		}
		s.config.trace.RetryAttempt(s.config, attempt+1)
	}
}

// readMatching reads frames until one decodes to a PDU with the expected
// request-id and the session's configured version/community, or the
// connection's read deadline (set by the caller) expires.
func (s *sessionImpl) readMatching(reqID int32) (*PDU, error) {
	input := make([]byte, maxInputBufferSize)
	for {
		readStart := time.Now()
		n, rerr := s.conn.Read(input)
		s.config.trace.ReadDone(s.config, input[:n], rerr, time.Since(readStart))
		if rerr != nil {
			return nil, rerr
		}

		version, community, respPDU, derr := DecodeMessage(input[:n])
		if derr != nil {
			continue
		}
		if version != s.config.version || community != s.config.community || respPDU.RequestID != reqID {
			continue
		}
		return respPDU, nil
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

var (
	sysUpTimeOID   = OID{1, 3, 6, 1, 2, 1, 1, 3, 0}
	snmpTrapOIDOid = OID{1, 3, 6, 1, 6, 3, 1, 1, 4, 1, 0}
)

func (s *sessionImpl) Trap(ctx context.Context, uptime uint32, trapOID OID, varbinds []Varbind) error {
	if s.config.version == V1 {
		return errors.Wrap(ErrVersion, "SNMPv2-Trap requires SNMPv2c")
	}

	vbs := make([]Varbind, 0, len(varbinds)+2)
	vbs = append(vbs,
		Varbind{Name: sysUpTimeOID, Value: NewTimeTicks(uptime)},
		Varbind{Name: snmpTrapOIDOid, Value: NewOID(trapOID)},
	)
	vbs = append(vbs, varbinds...)

	pdu := &PDU{Type: SNMPv2Trap, RequestID: s.nextID(), Varbinds: vbs}
	b, err := EncodeMessage(s.config.version, s.config.community, pdu)
	if err != nil {
		return err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(s.config.timeout)
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	start := time.Now()
	n, werr := s.conn.Write(b)
	s.config.trace.WriteDone(s.config, b[:n], werr, time.Since(start))
	return werr
}

func (s *sessionImpl) Close() error {
	return s.conn.Close()
}

func (s *sessionImpl) Table() *Table {
	return s.config.table
}

// nextID allocates a monotonically increasing request id, wrapping past
// math.MaxInt32 back to 1 (0 is a valid id but avoided to keep a visible gap
// at the wrap point during diagnostics).
func (s *sessionImpl) nextID() int32 {
	id := s.nextRequestID
	s.nextRequestID++
	if s.nextRequestID >= math.MaxInt32 {
		s.nextRequestID = 1
	}
	return id
}

func buildVarbinds(oids []OID) []Varbind {
	vbs := make([]Varbind, len(oids))
	for i, o := range oids {
		vbs[i] = Varbind{Name: o, Value: NewNull()}
	}
	return vbs
}
