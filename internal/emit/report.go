package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// reportSchemaVersion is bumped whenever the persisted report shape changes.
const reportSchemaVersion = 1

// BuildOutcome is the overall result of an emit run.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures what happened during a single emit run. It is
// persisted next to the emitted record so operators can inspect the last
// run without scanning logs.
type BuildReport struct {
	SchemaVersion int
	BuildID       string

	Pages  int
	Assets int

	// SkipReason is set when the run was skipped entirely, e.g. because
	// the manifest hash matched the previous record.
	SkipReason string

	Start time.Time
	End   time.Time

	Errors   []string
	Warnings []string

	StageDurations map[string]time.Duration

	Outcome      BuildOutcome
	ManifestHash string

	canceled bool
}

func newBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		SchemaVersion:  reportSchemaVersion,
		BuildID:        buildID,
		Start:          time.Now(),
		Errors:         []string{},
		Warnings:       []string{},
		StageDurations: map[string]time.Duration{},
	}
}

func (r *BuildReport) recordError(se *StageError) {
	r.Errors = append(r.Errors, se.Error())
	if se.Kind == StageErrorCanceled {
		r.canceled = true
	}
}

func (r *BuildReport) recordWarning(se *StageError) {
	r.Warnings = append(r.Warnings, se.Error())
}

// deriveOutcome ranks canceled above failed above warning above success.
func (r *BuildReport) deriveOutcome() BuildOutcome {
	switch {
	case r.canceled:
		return OutcomeCanceled
	case len(r.Errors) > 0:
		return OutcomeFailed
	case len(r.Warnings) > 0:
		return OutcomeWarning
	default:
		return OutcomeSuccess
	}
}

// finish stamps the end time and settles the outcome.
func (r *BuildReport) finish() {
	r.End = time.Now()
	r.Outcome = r.deriveOutcome()
}

// Duration is the wall-clock time of the run.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary renders a one-line human summary of the run.
func (r *BuildReport) Summary() string {
	if r.SkipReason != "" {
		return fmt.Sprintf("emit %s: skipped (%s)", r.BuildID, r.SkipReason)
	}
	return fmt.Sprintf("emit %s: %s pages=%d assets=%d errors=%d warnings=%d duration=%s",
		r.BuildID, r.Outcome, r.Pages, r.Assets, len(r.Errors), len(r.Warnings),
		r.Duration().Round(time.Millisecond))
}

// serializableReport is the persisted JSON shape. Durations are flattened
// to milliseconds so the file stays readable without Go duration semantics.
type serializableReport struct {
	SchemaVersion    int              `json:"schema_version"`
	BuildID          string           `json:"build_id"`
	Outcome          BuildOutcome     `json:"outcome"`
	SkipReason       string           `json:"skip_reason,omitempty"`
	Pages            int              `json:"pages"`
	Assets           int              `json:"assets"`
	Start            time.Time        `json:"start"`
	End              time.Time        `json:"end"`
	DurationMs       int64            `json:"duration_ms"`
	Errors           []string         `json:"errors"`
	Warnings         []string         `json:"warnings"`
	StageDurationsMs map[string]int64 `json:"stage_durations_ms"`
	ManifestHash     string           `json:"manifest_hash,omitempty"`
}

func (r *BuildReport) serializable() serializableReport {
	stages := make(map[string]int64, len(r.StageDurations))
	for name, d := range r.StageDurations {
		stages[name] = d.Milliseconds()
	}
	return serializableReport{
		SchemaVersion:    r.SchemaVersion,
		BuildID:          r.BuildID,
		Outcome:          r.Outcome,
		SkipReason:       r.SkipReason,
		Pages:            r.Pages,
		Assets:           r.Assets,
		Start:            r.Start,
		End:              r.End,
		DurationMs:       r.Duration().Milliseconds(),
		Errors:           r.Errors,
		Warnings:         r.Warnings,
		StageDurationsMs: stages,
		ManifestHash:     r.ManifestHash,
	}
}

// Persist writes build-report.json and build-report.txt into dir. Both files
// are written to a temp name first and renamed into place so a crashed run
// never leaves a truncated report.
func (r *BuildReport) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, "build-report.json"), data); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, "build-report.txt"), []byte(r.Summary()+"\n"))
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize %s: %w", filepath.Base(path), err)
	}
	return nil
}
