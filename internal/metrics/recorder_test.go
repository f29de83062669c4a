package metrics

import (
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("discover", time.Millisecond)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("discover", ResultWarning)
	r.IncBuildOutcome("warning")
	r.AddPagesWritten(2)
	r.IncPagesSkipped()
}
