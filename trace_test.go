package dvsim

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracedRun(t *testing.T, active bool) (*TraceManager, *Result) {
	t.Helper()
	d := buildDriver(t, DefaultTopoDesc(), nil, WithCountdownSources(everyStep))
	tm := CreateTraceManager("traced", active)
	d.AddObserver(tm.Attach(d))
	rslt := runToConvergence(t, d)
	tm.Finish(rslt)
	return tm, rslt
}

func TestTraceRecordsSteps(t *testing.T) {
	tm, rslt := tracedRun(t, true)

	assert.True(t, tm.Active())
	require.Len(t, tm.Traces, rslt.Steps)
	assert.Equal(t, "A", tm.NameByID[0])
	assert.Equal(t, "F", tm.NameByID[5])
	assert.Len(t, tm.Initial, 6)
	assert.Same(t, rslt, tm.Result)

	// every router learns something in the first step
	first := tm.Traces[0]
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, 1.0, first.Time)
	assert.Len(t, first.Changed, 6)

	// and nothing in the steps that lead to convergence
	for _, st := range tm.Traces[rslt.LastStepWithChange:] {
		assert.Empty(t, st.Changed, "step %d", st.Step)
		assert.Equal(t, 0, st.Delta)
	}

	_, err := uuid.Parse(tm.RunID)
	assert.NoError(t, err)
}

func TestTraceInactive(t *testing.T) {
	tm, _ := tracedRun(t, false)
	assert.False(t, tm.Active())
	assert.Empty(t, tm.Traces)
	assert.Nil(t, tm.Result)

	written, err := tm.WriteToFile(filepath.Join(t.TempDir(), "trace.yaml"))
	assert.False(t, written)
	assert.NoError(t, err)
}

func TestTraceFiles(t *testing.T) {
	tm, _ := tracedRun(t, true)
	dir := t.TempDir()

	for _, name := range []string{"trace.yaml", "trace.json"} {
		filename := filepath.Join(dir, name)
		written, err := tm.WriteToFile(filename)
		require.NoError(t, err)
		require.True(t, written)

		back, err := ReadTraceManager(filename, UseYAML(filename), []byte{})
		require.NoError(t, err)
		assert.Equal(t, tm.RunID, back.RunID)
		assert.Equal(t, tm.NameByID, back.NameByID)
		if diff := cmp.Diff(tm.Traces, back.Traces); diff != "" {
			t.Errorf("%s traces differ (-want +got):\n%s", name, diff)
		}
		assert.Equal(t, tm.Result.Tables, back.Result.Tables)
	}
}
