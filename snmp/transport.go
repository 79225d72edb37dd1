package snmp

import (
	"context"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseAddress resolves an SNMP target specification into a (network,
// address) pair suitable for net.Dial, applying defaultPort when the
// specification carries none and defaultNetwork ("udp" unless overridden by
// SessionOption Network) when it names no explicit transport. Recognized
// forms, per spec.md §4.4:
//
//	host                    -> defaultNetwork, host:defaultPort
//	host:port               -> defaultNetwork, host:port
//	udp:host[:port]         -> udp
//	udp6:host[:port]        -> udp6 (udpv6 accepted as an alias)
//	tcp:host[:port]         -> tcp
//	tcp6:host[:port]        -> tcp6 (tcpv6 accepted as an alias)
//	unix:/path/to/socket    -> unix
//
// IPv6 literals may be bracketed ("[::1]:161") in any of the above forms.
func ParseAddress(spec string, defaultPort int, defaultNetwork string) (network, address string, err error) {
	network = defaultNetwork
	rest := spec

	if !strings.HasPrefix(spec, "[") {
		if idx := strings.Index(spec, ":"); idx >= 0 {
			switch spec[:idx] {
			case "udp", "tcp":
				network = spec[:idx]
				rest = spec[idx+1:]
			case "udp6", "udpv6":
				network = "udp6"
				rest = spec[idx+1:]
			case "tcp6", "tcpv6":
				network = "tcp6"
				rest = spec[idx+1:]
			case "unix":
				path := spec[idx+1:]
				if path == "" {
					return "", "", &AddressError{Spec: spec, Message: "empty unix socket path"}
				}
				return "unix", path, nil
			}
		}
	}

	host, port, err := splitHostPort(rest, defaultPort)
	if err != nil {
		return "", "", &AddressError{Spec: spec, Message: err.Error()}
	}
	return network, net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func splitHostPort(s string, defaultPort int) (string, int, error) {
	if s == "" {
		return "", 0, errors.New("empty host")
	}
	if h, p, err := net.SplitHostPort(s); err == nil {
		portNum, perr := strconv.Atoi(p)
		if perr != nil {
			return "", 0, perr
		}
		return h, portNum, nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return s[1 : len(s)-1], defaultPort, nil
	}
	return s, defaultPort, nil
}

// Dial resolves spec and establishes a connection, framing it with a 2-byte
// big-endian length prefix when the resolved network is stream-oriented
// (tcp/tcp6/unix); UDP transports carry SNMP's natural datagram framing and
// are returned unwrapped. For IP-based transports, the host is resolved to
// every candidate address (per spec.md §4.4: "name resolution tries each
// returned address in order; the first that yields a successfully created
// socket is connected"); a lookup failure surfaces as *ResolveError, a
// connect failure on every candidate as *ConnectError.
func Dial(ctx context.Context, spec string, defaultPort int, defaultNetwork string) (net.Conn, error) {
	network, address, err := ParseAddress(spec, defaultPort, defaultNetwork)
	if err != nil {
		return nil, err
	}

	var d net.Dialer

	if network == "unix" {
		conn, err := d.DialContext(ctx, network, address)
		if err != nil {
			return nil, &ConnectError{Addr: address, Err: err}
		}
		return wrapFramed(network, conn), nil
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, &AddressError{Spec: spec, Message: err.Error()}
	}

	candidates, err := net.DefaultResolver.LookupIP(ctx, lookupNetworkFor(network), host)
	if err != nil {
		return nil, &ResolveError{Host: host, Err: err}
	}

	var lastErr error
	for _, ip := range candidates {
		peer := net.JoinHostPort(ip.String(), port)
		conn, err := d.DialContext(ctx, network, peer)
		if err == nil {
			return wrapFramed(network, conn), nil
		}
		lastErr = err
	}
	return nil, &ConnectError{Addr: address, Err: lastErr}
}

// lookupNetworkFor maps a dial network to the LookupIP network hint that
// restricts resolution to the matching address family; bare "udp"/"tcp"
// accept either family and let the OS pick.
func lookupNetworkFor(network string) string {
	switch network {
	case "udp6", "tcp6":
		return "ip6"
	default:
		return "ip"
	}
}

// wrapFramed adds framing for stream-oriented transports; UDP is returned
// unwrapped, carrying SNMP's natural datagram framing.
func wrapFramed(network string, conn net.Conn) net.Conn {
	switch network {
	case "tcp", "tcp6", "unix":
		return &framedConn{Conn: conn}
	default:
		return conn
	}
}

// framedConn wraps a stream connection so each SNMP message is preceded by
// its length as a 2-byte big-endian integer, matching the framing net-snmp
// uses over TCP/UNIX transports.
type framedConn struct {
	net.Conn
}

func (c *framedConn) Write(b []byte) (int, error) {
	if len(b) > 0xffff {
		return 0, errors.Errorf("snmp: message too large to frame (%d bytes)", len(b))
	}
	hdr := []byte{byte(len(b) >> 8), byte(len(b))}
	if _, err := c.Conn.Write(hdr); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

func (c *framedConn) Read(b []byte) (int, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(c.Conn, hdr[:]); err != nil {
		return 0, err
	}
	n := int(hdr[0])<<8 | int(hdr[1])
	if n > len(b) {
		return 0, errors.Errorf("snmp: framed message (%d bytes) exceeds read buffer (%d bytes)", n, len(b))
	}
	return io.ReadFull(c.Conn, b[:n])
}
