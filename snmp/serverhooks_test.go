package snmp

import (
	"errors"
	"net"
	"testing"
)

func TestDiagnosticServerHooksForUntestableExceptions(t *testing.T) {
	hooks := DiagnosticServerHooks
	addr := &net.UDPAddr{Port: 162}
	hooks.StartListening(addr)
	hooks.StopListening(addr, errors.New("closed"))
	hooks.Error(&ServerConfig{}, errors.New("problem"))
	hooks.WriteDone(&ServerConfig{}, addr, []byte{0x01}, nil)
	hooks.ReadDone(&ServerConfig{}, addr, []byte{0x01}, nil)
}

func TestNoOpServerHooks(t *testing.T) {
	hooks := NoOpServerHooks
	addr := &net.UDPAddr{Port: 162}
	hooks.StartListening(addr)
	hooks.StopListening(addr, nil)
	hooks.Error(&ServerConfig{}, errors.New("problem"))
	hooks.WriteDone(&ServerConfig{}, addr, nil, nil)
	hooks.ReadDone(&ServerConfig{}, addr, nil, nil)
}
