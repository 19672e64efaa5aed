package main

import (
	"log/slog"
)

// loggingChannel is the outbound command channel used until a virtual
// channel transport is attached. It records every outgoing order at
// debug level so the reconciliation core can run against a live X
// session without a host connection.
type loggingChannel struct {
	logger *slog.Logger
}

func newLoggingChannel(logger *slog.Logger) *loggingChannel {
	return &loggingChannel{logger: logger}
}

func (c *loggingChannel) SendWindowMove(windowID uint32, left, top, right, bottom int16) error {
	c.logger.Debug("client window move",
		"window_id", windowID, "left", left, "top", top, "right", right, "bottom", bottom)
	return nil
}

func (c *loggingChannel) SendActivate(windowID uint32, enabled bool) error {
	c.logger.Debug("client activate", "window_id", windowID, "enabled", enabled)
	return nil
}

func (c *loggingChannel) SendSystemCommand(windowID uint32, command uint16) error {
	c.logger.Debug("client system command", "window_id", windowID, "command", command)
	return nil
}

func (c *loggingChannel) SendExecute(program, workingDir, arguments string) error {
	c.logger.Debug("client execute", "program", program, "dir", workingDir, "args", arguments)
	return nil
}
