package snmp

import (
	"encoding/hex"
	"log"
	"time"
)

// SessionTrace defines hooks for observing session activity: connection
// setup, individual writes/reads, retries, and errors.
type SessionTrace struct {
	// ConnectStart is called before establishing a network connection to an agent.
	ConnectStart func(config *SessionConfig)

	// ConnectDone is called when the network connection attempt completes.
	ConnectDone func(config *SessionConfig, err error, d time.Duration)

	// Error is called after an error condition has been detected.
	Error func(location string, config *SessionConfig, err error)

	// WriteDone is called after a request packet has been written.
	WriteDone func(config *SessionConfig, output []byte, err error, d time.Duration)

	// ReadDone is called after a response read has completed.
	ReadDone func(config *SessionConfig, input []byte, err error, d time.Duration)

	// RetryAttempt is called before a retransmission, with the zero-based
	// attempt number that is about to be sent.
	RetryAttempt func(config *SessionConfig, attempt int)
}

// DefaultLoggingHooks logs only errors.
var DefaultLoggingHooks = &SessionTrace{
	Error: func(location string, config *SessionConfig, err error) {
		log.Printf("SNMP-Error context:%s target:%s err:%v\n", location, config.address, err)
	},
}

// MetricLoggingHooks logs connection and request timings, without payload data.
var MetricLoggingHooks = &SessionTrace{
	ConnectDone: func(config *SessionConfig, err error, d time.Duration) {
		log.Printf("SNMP-ConnectDone target:%s err:%v took:%dms\n", config.address, err, d.Milliseconds())
	},
	Error: DefaultLoggingHooks.Error,
	WriteDone: func(config *SessionConfig, output []byte, err error, d time.Duration) {
		log.Printf("SNMP-WriteDone target:%s err:%v took:%dms\n", config.address, err, d.Milliseconds())
	},
	ReadDone: func(config *SessionConfig, input []byte, err error, d time.Duration) {
		log.Printf("SNMP-ReadDone target:%s err:%v took:%dms\n", config.address, err, d.Milliseconds())
	},
	RetryAttempt: func(config *SessionConfig, attempt int) {
		log.Printf("SNMP-Retry target:%s attempt:%d\n", config.address, attempt)
	},
}

// DiagnosticLoggingHooks logs everything, including hex-encoded wire bytes.
var DiagnosticLoggingHooks = &SessionTrace{
	ConnectStart: func(config *SessionConfig) {
		log.Printf("SNMP-ConnectStart target:%s\n", config.address)
	},
	ConnectDone: MetricLoggingHooks.ConnectDone,
	Error:       DefaultLoggingHooks.Error,
	WriteDone: func(config *SessionConfig, output []byte, err error, d time.Duration) {
		log.Printf("SNMP-WriteDone target:%s err:%v took:%dms data:%s\n", config.address, err, d.Milliseconds(), hex.EncodeToString(output))
	},
	ReadDone: func(config *SessionConfig, input []byte, err error, d time.Duration) {
		log.Printf("SNMP-ReadDone target:%s err:%v took:%dms data:%s\n", config.address, err, d.Milliseconds(), hex.EncodeToString(input))
	},
	RetryAttempt: MetricLoggingHooks.RetryAttempt,
}

// NoOpLoggingHooks discards every event.
var NoOpLoggingHooks = &SessionTrace{
	ConnectStart: func(config *SessionConfig) {},
	ConnectDone:  func(config *SessionConfig, err error, d time.Duration) {},
	Error:        func(location string, config *SessionConfig, err error) {},
	WriteDone:    func(config *SessionConfig, output []byte, err error, d time.Duration) {},
	ReadDone:     func(config *SessionConfig, input []byte, err error, d time.Duration) {},
	RetryAttempt: func(config *SessionConfig, attempt int) {},
}
