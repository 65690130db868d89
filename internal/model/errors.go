package model

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageLoad   Stage = "load"
	StageAPI    Stage = "api"
	StageParse  Stage = "parse"
	StageSchema Stage = "schema"
	StageLog    Stage = "log"
)

// PipelineError tags a failure with the stage that produced it.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewLoadError(err error) error   { return &PipelineError{Stage: StageLoad, Err: err} }
func NewAPIError(err error) error    { return &PipelineError{Stage: StageAPI, Err: err} }
func NewParseError(err error) error  { return &PipelineError{Stage: StageParse, Err: err} }
func NewSchemaError(err error) error { return &PipelineError{Stage: StageSchema, Err: err} }
func NewLogError(err error) error    { return &PipelineError{Stage: StageLog, Err: err} }

// StageOf returns the stage of the first PipelineError in err's chain.
func StageOf(err error) (Stage, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage, true
	}
	return "", false
}

// IsStage reports whether err carries the given stage.
func IsStage(err error, stage Stage) bool {
	s, ok := StageOf(err)
	return ok && s == stage
}
