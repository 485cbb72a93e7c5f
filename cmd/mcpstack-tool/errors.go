// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import "fmt"

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "mcpstack-tool: some entries could not be applied"
		case ExitTotalFailure:
			msg = "mcpstack-tool: nothing could be applied"
		case ExitCheckFailed:
			msg = "mcpstack-tool: checks failed"
		case ExitNoState:
			msg = "mcpstack-tool: no recorded apply to reset"
		default:
			msg = "mcpstack-tool: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
