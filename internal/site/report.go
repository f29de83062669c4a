package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/version"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are a stable contract and should only be appended.
type ReportIssueCode string

const (
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
	IssueDiscoveryFailure  ReportIssueCode = "DISCOVERY_FAILURE"
	IssueContentRead       ReportIssueCode = "CONTENT_READ"
	IssueMarkdownSkipped   ReportIssueCode = "MARKDOWN_SKIPPED"
	IssueLayoutRender      ReportIssueCode = "LAYOUT_RENDER"
	IssueFilesystem        ReportIssueCode = "FILESYSTEM"
	IssueSitePathCollision ReportIssueCode = "SITE_PATH_COLLISION"
	IssueFrontMatter       ReportIssueCode = "FRONT_MATTER"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
	Path     string          `json:"path,omitempty"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// PageReport records one rendered page.
type PageReport struct {
	Path        string `json:"path"`
	Output      string `json:"output"`
	Layout      string `json:"layout"`
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
}

// BuildReport captures metrics and outcome of one generation run.
type BuildReport struct {
	SchemaVersion   int
	RunID           string
	Version         string
	Start           time.Time
	End             time.Time
	Files           int // discovered content files
	RenderedPages   int
	SkippedPages    int
	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Issues          []ReportIssue
	Pages           []PageReport
	Outcome         BuildOutcome
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		RunID:           uuid.NewString(),
		Version:         version.Version,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, err error) {
	issue := ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg}
	if se, ok := derrors.As(err); ok {
		if p, ok := se.Context["path"].(string); ok {
			issue.Path = p
		}
	}
	r.Issues = append(r.Issues, issue)
	if err != nil {
		switch severity {
		case SeverityError:
			r.Errors = append(r.Errors, err)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, err)
		}
	}
}

// recordStageResult updates stage counters and forwards to the recorder.
func (r *BuildReport) recordStageResult(stage StageName, res metrics.ResultLabel, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case metrics.ResultSuccess:
		sc.Success++
	case metrics.ResultWarning:
		sc.Warning++
	case metrics.ResultFatal:
		sc.Fatal++
	case metrics.ResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	recorder.IncStageResult(string(stage), res)
}

func (r *BuildReport) finish() { r.End = time.Now() }

// deriveOutcome sets Outcome based on recorded errors and warnings.
func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("run=%s files=%d rendered=%d skipped=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.RunID, r.Files, r.RenderedPages, r.SkippedPages, dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// WriteJSON encodes the report to w.
func (r *BuildReport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.serializable()); err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}
	return nil
}

// Persist writes the report as JSON to path atomically (temp file + rename).
func (r *BuildReport) Persist(path string) error {
	if r.End.IsZero() {
		r.finish()
		r.deriveOutcome()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename report: %w", err)
	}
	return nil
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion   int                      `json:"schema_version"`
	RunID           string                   `json:"run_id"`
	Version         string                   `json:"version"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	Files           int                      `json:"files"`
	RenderedPages   int                      `json:"rendered_pages"`
	SkippedPages    int                      `json:"skipped_pages"`
	Errors          []string                 `json:"errors"`
	Warnings        []string                 `json:"warnings"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds map[string]string        `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount    `json:"stage_counts"`
	Issues          []ReportIssue            `json:"issues"`
	Pages           []PageReport             `json:"pages"`
	Outcome         string                   `json:"outcome"`
}

func (r *BuildReport) serializable() *BuildReportSerializable {
	s := &BuildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		RunID:           r.RunID,
		Version:         r.Version,
		Start:           r.Start,
		End:             r.End,
		Files:           r.Files,
		RenderedPages:   r.RenderedPages,
		SkippedPages:    r.SkippedPages,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  r.StageDurations,
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:     make(map[string]StageCount, len(r.StageCounts)),
		Issues:          r.Issues,
		Pages:           r.Pages,
		Outcome:         string(r.Outcome),
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	if s.Issues == nil {
		s.Issues = []ReportIssue{}
	}
	if s.Pages == nil {
		s.Pages = []PageReport{}
	}
	return s
}

// issueCodeFor maps a fatal stage error to an issue code via the error category.
func issueCodeFor(se *StageError) ReportIssueCode {
	switch derrors.GetCategory(se.Err) {
	case derrors.CategoryContent:
		return IssueContentRead
	case derrors.CategoryLayout:
		return IssueLayoutRender
	case derrors.CategoryFileSystem:
		return IssueFilesystem
	case derrors.CategoryValidation:
		return IssueFrontMatter
	}
	if se.Stage == StageDiscover {
		return IssueDiscoveryFailure
	}
	return IssueGenericStageError
}
