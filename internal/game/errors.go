package game

import "errors"

// Rule violations reported by engines. Callers match them with errors.Is;
// the user-facing reason travels in RuleError.
var (
	ErrGameEnded      = errors.New("game ended")
	ErrGameNotStarted = errors.New("game not started")
	ErrWrongTurn      = errors.New("wrong turn")
	ErrCellOccupied   = errors.New("cell occupied")
	ErrInvalidMove    = errors.New("invalid move")
	ErrInvalidState   = errors.New("invalid state")
)

// RuleError is a rejected operation with a reason meant to be shown to the player.
type RuleError struct {
	Reason string
	Kind   error
}

func (e *RuleError) Error() string {
	return e.Reason
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

func Reject(kind error, reason string) error {
	return &RuleError{Reason: reason, Kind: kind}
}

// Reason returns the user-facing reason of a rule violation, or err.Error()
// for any other error.
func Reason(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason
	}
	return err.Error()
}
