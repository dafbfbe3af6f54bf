package shipments

import (
	"errors"
	"fmt"
)

// ErrPipelineFailure matches every *PipelineError.
var ErrPipelineFailure = errors.New("shipment pipeline failed")

// PipelineError reports a failure while reading or deriving shipments. No
// partial data is produced when it is returned.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPipelineFailure, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPipelineFailure) match.
func (e *PipelineError) Is(target error) bool {
	return target == ErrPipelineFailure
}
