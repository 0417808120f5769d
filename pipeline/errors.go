package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryRequired is returned when a note repository is not provided.
	ErrRepositoryRequired = errors.New("note repository required")

	// ErrStagesRequired is returned when a pipeline stage is not provided.
	ErrStagesRequired = errors.New("extractors and all derivation stages required")
)

// Stage names reported in StageError and RunEvent.
const (
	StageClassify   = "classify"
	StageExtract    = "extract"
	StageSummary    = "summary"
	StageKeyphrases = "keyphrases"
	StageQuestions  = "questions"
	StagePersist    = "persist"
)

// StageError records which stage a run failed in.
// It unwraps to the stage's own error, so errors.Is against the core
// taxonomy works through it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
