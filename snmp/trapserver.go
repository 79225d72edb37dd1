package snmp

import (
	"context"
	"io"
	"net"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
)

// Server receives Trap and Inform messages until closed.
type Server io.Closer

// Handler is invoked for each received trap/inform message. A Handler
// invocation blocks receipt of further messages, and for an inform also
// blocks sending the acknowledgement; implementations must return promptly.
type Handler interface {
	NewMessage(version Version, community string, pdu *PDU, isInform bool, sourceAddr net.Addr)
}

// ServerOption configures NewServer.
type ServerOption func(*ServerConfig)

// ServerNetwork selects the listening transport. Default "udp".
func ServerNetwork(network string) ServerOption {
	return func(c *ServerConfig) { c.network = network }
}

// ServerAddress selects the listening interface address. Default "" (all
// interfaces).
func ServerAddress(address string) ServerOption {
	return func(c *ServerConfig) { c.address = address }
}

// ServerPort selects the listening UDP port. Default 162.
func ServerPort(port int) ServerOption {
	return func(c *ServerConfig) { c.port = port }
}

// ServerHooksOption installs a set of server trace hooks, merged over
// NoOpServerHooks.
func ServerHooksOption(hooks *ServerHooks) ServerOption {
	return func(c *ServerConfig) { c.trace = hooks }
}

// ServerConfig holds resolved server configuration.
type ServerConfig struct {
	network string
	address string
	port    int
	trace   *ServerHooks
}

var defaultServerConfig = ServerConfig{
	network: "udp",
	address: "",
	port:    162,
	trace:   DefaultServerHooks,
}

type serverImpl struct {
	conn    net.PacketConn
	config  *ServerConfig
	handler Handler
}

// NewServer binds a UDP listener and begins dispatching received
// trap/inform messages to handler on a background goroutine.
func NewServer(ctx context.Context, handler Handler, opts ...ServerOption) (Server, error) {
	config := defaultServerConfig
	for _, opt := range opts {
		opt(&config)
	}
	_ = mergo.Merge(config.trace, NoOpServerHooks)

	addr := &net.UDPAddr{Port: config.port, IP: net.ParseIP(config.address)}
	conn, err := net.ListenUDP(config.network, addr)
	if err != nil {
		return nil, err
	}

	s := &serverImpl{config: &config, conn: conn, handler: handler}
	s.run(ctx)
	return s, nil
}

func (s *serverImpl) Close() error {
	return s.conn.Close()
}

func (s *serverImpl) run(ctx context.Context) {
	go func() {
		s.config.trace.StartListening(s.conn.LocalAddr())
		err := s.listen(ctx)
		s.config.trace.StopListening(s.conn.LocalAddr(), err)
	}()
}

func (s *serverImpl) listen(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		input, addr, err := s.readMessage()
		if err != nil {
			return err
		}
		if err := s.processMessage(input, addr); err != nil {
			s.config.trace.Error(s.config, err)
		}
	}
}

func (s *serverImpl) readMessage() ([]byte, net.Addr, error) {
	input := make([]byte, maxInputBufferSize)
	n, addr, err := s.conn.ReadFrom(input)
	s.config.trace.ReadDone(s.config, addr, input[:n], err)
	if err != nil {
		return nil, nil, err
	}
	return input[:n], addr, nil
}

func (s *serverImpl) processMessage(input []byte, addr net.Addr) error {
	version, community, pdu, err := DecodeMessage(input)
	if err != nil {
		return errors.Wrap(err, "decode trap message")
	}

	isInform := pdu.Type == InformRequest
	if pdu.Type != SNMPv2Trap && pdu.Type != InformRequest && pdu.Type != TrapPDUv1 {
		return errors.Errorf("snmp: unexpected message type %s from %s", pdu.Type, addr)
	}

	s.handler.NewMessage(version, community, pdu, isInform, addr)

	if isInform {
		return s.acknowledgeInform(version, community, pdu, addr)
	}
	return nil
}

func (s *serverImpl) acknowledgeInform(version Version, community string, pdu *PDU, addr net.Addr) error {
	ack := &PDU{Type: GetResponse, RequestID: pdu.RequestID, Varbinds: pdu.Varbinds}
	b, err := EncodeMessage(version, community, ack)
	if err != nil {
		return errors.Wrap(err, "encode inform acknowledgement")
	}
	return s.writeMessage(b, addr)
}

func (s *serverImpl) writeMessage(b []byte, addr net.Addr) error {
	_, err := s.conn.WriteTo(b, addr)
	s.config.trace.WriteDone(s.config, addr, b, err)
	return err
}
