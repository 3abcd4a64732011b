package reactive

import (
	"fmt"
)

// Stage names the part of a flush batch that failed
type Stage string

const (
	StageTotals     Stage = "totals"
	StageItemRows   Stage = "item-rows"
	StageHourlyRows Stage = "hourly-rows"
	StageDisplay    Stage = "display"
)

// FlushError reports a failed flush. The store keeps its last good totals.
type FlushError struct {
	Stage Stage
	Err   error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flush failed at %s: %v", e.Stage, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panic during a flush
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
