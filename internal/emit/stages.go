package emit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/manifest"
)

// Stage is a discrete unit of work in the emit run.
type Stage func(ctx context.Context, st *emitState) error

// StageName is a strongly-typed identifier for an emit stage.
type StageName string

// Canonical stage names.
const (
	StagePrepare          StageName = "prepare"
	StageResolveConfig    StageName = "resolve_config"
	StageNormalizeContent StageName = "normalize_content"
	StageManifest         StageName = "manifest"
)

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 4)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a defensive copy of the stage definitions slice.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}

// emitState carries mutable state across stages.
type emitState struct {
	Generator *Generator
	Inventory *content.Inventory
	Manifest  *manifest.SiteManifest
	Report    *BuildReport
	RunID     string

	// siteConfigHash is the sha256 of the emitted site.yaml, filled by
	// resolve_config and recorded into the manifest outputs.
	siteConfigHash string
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled error. Warning-kind stage errors are recorded and
// the run continues.
func runStages(ctx context.Context, st *emitState, stages []StageDef) error {
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(def.Name, ctx.Err())
			st.Report.recordError(se)
			return se
		default:
		}

		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[string(def.Name)] = dur
		st.Generator.recorder.ObserveStageDuration(string(def.Name), dur)

		if err == nil {
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Wrap unknown errors as fatal by default.
			se = newFatalStageError(def.Name, err)
		}
		switch se.Kind {
		case StageErrorWarning:
			st.Report.recordWarning(se)
			continue
		default:
			st.Report.recordError(se)
			return se
		}
	}
	return nil
}
