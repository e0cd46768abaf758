package command

import (
	"fmt"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/listener"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
)

// ListenerConfig describes one admin console listener. Only telnet is
// supported; the console is expected to sit behind a private network.
type ListenerConfig struct {
	Port uint16 `json:"port"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	return el.Err()
}

func (cl *ListenerConfig) buildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	return listener.NewTelnetListener(cl.Port, cm), nil
}
