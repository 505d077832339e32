package matchsim

import "github.com/cockroachdb/errors"

// ErrIllegalTransition names the abort reason Simulate records when the
// match state machine is asked to move somewhere it cannot legally reach
// from its current state.
var ErrIllegalTransition = errors.New("matchsim: illegal match state transition")

// ErrCannotFormStartingXI is raised when a squad cannot satisfy the
// starting-eleven position constraints (one GK, >=3 defenders, >=1
// forward).
var ErrCannotFormStartingXI = errors.New("matchsim: cannot form a legal starting eleven")
