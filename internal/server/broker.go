package server

import (
	"fmt"
	"log/slog"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
)

// StartBroker runs an in-process COMMS server on 127.0.0.1. A port of -1
// picks a free one.
func StartBroker(port int) (*commsserver.Server, error) {
	opts := &commsserver.Options{
		Host:   "127.0.0.1",
		Port:   port,
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := commsserver.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create COMMS server: %w", logPrefix, err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("%s - COMMS server failed to start", logPrefix)
	}
	slog.Info(fmt.Sprintf("%s - Embedded COMMS server at %s", logPrefix, ns.ClientURL()))
	return ns, nil
}
