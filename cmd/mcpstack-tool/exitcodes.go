// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

// Exit codes for the mcpstack-tool CLI.
const (
	ExitOK             = 0 // Command succeeded.
	ExitInvalidArgs    = 1 // Invalid arguments, bad path or malformed names.
	ExitPartialFailure = 2 // Some entries were applied, others failed.
	ExitTotalFailure   = 3 // Nothing could be applied.
	ExitCheckFailed    = 4 // validate or doctor found problems.
	ExitNoState        = 5 // reset found no recorded apply.
)
