package snmp

import (
	"encoding/hex"
	"log"
	"net"
)

// ServerHooks defines hooks for observing trap/inform server activity.
type ServerHooks struct {
	// StartListening is called when the server begins listening for messages.
	StartListening func(addr net.Addr)

	// StopListening is called when the server stops listening.
	StopListening func(addr net.Addr, err error)

	// Error is called after an error condition has been detected.
	Error func(config *ServerConfig, err error)

	// WriteDone is called after an inform acknowledgement has been written.
	WriteDone func(config *ServerConfig, addr net.Addr, output []byte, err error)

	// ReadDone is called after a message read has completed.
	ReadDone func(config *ServerConfig, addr net.Addr, input []byte, err error)
}

// DefaultServerHooks logs only errors and failed reads/writes.
var DefaultServerHooks = &ServerHooks{
	Error: func(config *ServerConfig, err error) {
		log.Printf("snmp-server error target:%s err:%v\n", config.address, err)
	},
	WriteDone: func(config *ServerConfig, addr net.Addr, output []byte, err error) {
		if err != nil {
			log.Printf("snmp-server WriteDone target:%s err:%v\n", addr, err)
		}
	},
	ReadDone: func(config *ServerConfig, addr net.Addr, input []byte, err error) {
		if err != nil {
			log.Printf("snmp-server ReadDone source:%s err:%v\n", addr, err)
		}
	},
}

// DiagnosticServerHooks logs every event, including hex-encoded wire bytes.
var DiagnosticServerHooks = &ServerHooks{
	StartListening: func(addr net.Addr) {
		log.Printf("snmp-server StartListening address:%s\n", addr)
	},
	StopListening: func(addr net.Addr, err error) {
		log.Printf("snmp-server StopListening address:%s err:%v\n", addr, err)
	},
	Error: func(config *ServerConfig, err error) {
		log.Printf("snmp-server error err:%v\n", err)
	},
	WriteDone: func(config *ServerConfig, addr net.Addr, output []byte, err error) {
		log.Printf("snmp-server WriteDone target:%s err:%v data:%s\n", addr, err, hex.EncodeToString(output))
	},
	ReadDone: func(config *ServerConfig, addr net.Addr, input []byte, err error) {
		log.Printf("snmp-server ReadDone source:%s err:%v data:%s\n", addr, err, hex.EncodeToString(input))
	},
}

// NoOpServerHooks discards every event.
var NoOpServerHooks = &ServerHooks{
	StartListening: func(addr net.Addr) {},
	StopListening:  func(addr net.Addr, err error) {},
	Error:          func(config *ServerConfig, err error) {},
	WriteDone:      func(config *ServerConfig, addr net.Addr, output []byte, err error) {},
	ReadDone:       func(config *ServerConfig, addr net.Addr, input []byte, err error) {},
}
