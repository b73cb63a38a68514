package node

import (
	"github.com/rs/zerolog"

	"github.com/cuemby/nodefabric/internal/fatal"
	"github.com/cuemby/nodefabric/pkg/log"
)

func nodeLog() zerolog.Logger {
	return log.WithComponent("node")
}

// fatalCreate converts a programmer-error condition encountered while
// creating the details artifact (the NodeId was supposed to be unique)
// into a logged panic.
func fatalCreate(err error) error {
	fatal.Panicf(nodeLog(), "node details artifact already exists, NodeId collision: %v", err)
	return nil // unreachable
}
