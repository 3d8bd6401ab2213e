package dvsim

import (
	"math"
	"testing"

	"github.com/iti/evt/evtm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInVirtualTime(t *testing.T) {
	d := buildDriver(t, DefaultTopoDesc(), nil, WithCountdownSources(everyStep))

	times := []float64{}
	d.AddObserver(func(rep StepReport) { times = append(times, rep.Time) })

	rslt, err := RunInVirtualTime(d, 0.5, math.Inf(1))
	require.NoError(t, err)
	assert.True(t, rslt.Converged)
	assert.Empty(t, VerifyTables(d.Topology(), rslt.Tables, DefaultInfinityHops))

	require.Len(t, times, rslt.Steps)
	for idx, tm := range times {
		assert.InDelta(t, 0.5*float64(idx+1), tm, 1e-9)
	}
}

// without a step limit or a time limit the run goes on until it converges
func TestRunInVirtualTimeUnbounded(t *testing.T) {
	for _, limit := range []float64{0, -1, math.Inf(1)} {
		cfg := DefaultConfig()
		cfg.MaxSteps = 0
		cfg.Seed = 8
		d := buildDriver(t, DefaultTopoDesc(), cfg)

		rslt, err := RunInVirtualTime(d, 1.0, limit)
		require.NoError(t, err, "limit %v", limit)
		assert.True(t, rslt.Converged)
		assert.Greater(t, rslt.Steps, 0)
		assert.Empty(t, VerifyTables(d.Topology(), rslt.Tables, cfg.InfinityHops))
	}
}

func TestRunInVirtualTimeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StaticThreshold = 1000
	d := buildDriver(t, scenarioA(), cfg, WithCountdownSources(everyStep))

	rslt, err := RunInVirtualTime(d, 1.0, 10.5)
	assert.ErrorIs(t, err, ErrTimeLimit)
	assert.False(t, rslt.Converged)
	assert.Equal(t, 10, rslt.Steps)
}

func TestRunInVirtualTimeStepLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StaticThreshold = 1000
	cfg.MaxSteps = 4
	d := buildDriver(t, scenarioA(), cfg, WithCountdownSources(everyStep))

	rslt, err := RunInVirtualTime(d, 0.5, math.Inf(1))
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, 4, rslt.Steps)

	// once the scheduler is done the driver counts time in steps again
	rep, err := d.Step()
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Step)
	assert.Equal(t, 5.0, rep.Time)
}

func TestStepSchedulerFollowsEventClock(t *testing.T) {
	d := buildDriver(t, DefaultTopoDesc(), nil, WithCountdownSources(everyStep))
	evtMgr := evtm.New()

	d.AddObserver(func(rep StepReport) {
		assert.Equal(t, evtMgr.CurrentSeconds(), rep.Time, "step %d", rep.Step)
	})

	var doneAt float64
	var doneRslt *Result
	ss := CreateStepScheduler(d, 2.0)
	ss.OnDone(nil, func(evtMgr *evtm.EventManager, context any, data any) any {
		doneAt = evtMgr.CurrentSeconds()
		doneRslt = data.(*Result)
		return nil
	})
	ss.Start(evtMgr)
	evtMgr.Run(1000.0)

	rslt, err := ss.Result()
	require.NoError(t, err)
	require.NotNil(t, rslt)
	assert.Same(t, rslt, doneRslt)
	assert.InDelta(t, 2.0*float64(rslt.Steps), doneAt, 1e-9)
}
