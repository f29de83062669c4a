package site

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func TestRunStages_PanicBecomesInternalError(t *testing.T) {
	g := NewGenerator(testConfig(), memfs.New())
	report := newBuildReport()
	bs := newBuildState(g, report)

	ran := false
	stages := NewPipeline().
		Add(StageRender, func(context.Context, *BuildState) error { panic("boom") }).
		Add(StageWrite, func(context.Context, *BuildState) error { ran = true; return nil }).
		Build()

	err := runStages(context.Background(), bs, stages)
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryInternal))
	require.Contains(t, err.Error(), "panic: boom")
	require.False(t, ran)

	report.deriveOutcome()
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Equal(t, StageErrorFatal, report.StageErrorKinds[StageRender])
	require.Equal(t, IssueGenericStageError, report.Issues[0].Code)
}
