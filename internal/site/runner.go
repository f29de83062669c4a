package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage. Warnings are recorded and the run goes on.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	rec := bs.Generator.recorder
	log := bs.log

	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.AddIssue(IssueCanceled, st.Name, SeverityError, se.Error(), se)
			bs.Report.recordStageResult(st.Name, metrics.ResultCanceled, rec)
			return se
		default:
		}

		t0 := time.Now()
		err := runStage(ctx, bs, st)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur
		rec.ObserveStageDuration(string(st.Name), dur)
		log.Debug("Stage complete", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur.Microseconds())/1000))

		if err == nil {
			bs.Report.recordStageResult(st.Name, metrics.ResultSuccess, rec)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(st.Name, err)
		}
		bs.Report.StageErrorKinds[st.Name] = se.Kind

		switch se.Kind {
		case StageErrorWarning:
			bs.Report.recordStageResult(st.Name, metrics.ResultWarning, rec)
			log.Warn("Stage completed with warnings", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
			continue
		case StageErrorCanceled:
			bs.Report.AddIssue(IssueCanceled, st.Name, SeverityError, se.Error(), se)
			bs.Report.recordStageResult(st.Name, metrics.ResultCanceled, rec)
			return se
		default:
			bs.Report.AddIssue(issueCodeFor(se), st.Name, SeverityError, se.Error(), se)
			bs.Report.recordStageResult(st.Name, metrics.ResultFatal, rec)
			log.Error("Stage failed", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
			return se
		}
	}
	log.Debug("All stages complete", logfields.Count(len(stages)))
	return nil
}

// runStage turns a panic inside a stage into a fatal internal error.
func runStage(ctx context.Context, bs *BuildState, st StageDef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("panic: %v", r)
			err = newFatalStageError(st.Name, derrors.InternalError(fmt.Sprintf("stage %s failed", st.Name), cause))
		}
	}()
	return st.Fn(ctx, bs)
}
