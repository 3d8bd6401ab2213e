package dvsim

// scheduler.go runs a Driver inside a discrete-event simulation. Each step
// is an event, the next one scheduled a fixed interval of virtual time after
// the last, so that the routing simulation can share an event list with
// other models that use the same event manager.

import (
	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
	"math"
)

// StepScheduler drives the steps of a Driver from an evtm.EventManager
type StepScheduler struct {
	driver   *Driver
	interval float64

	// called after the step that converges, or the step that fails
	onDone evtm.EventHandlerFunction
	doneCxt any

	// the driver's clock before Start, put back when the run finishes
	prevNow func() float64

	result *Result
	err    error
}

// CreateStepScheduler is a constructor. interval is the virtual time, in seconds,
// between consecutive steps.
func CreateStepScheduler(d *Driver, interval float64) *StepScheduler {
	ss := new(StepScheduler)
	ss.driver = d
	ss.interval = interval
	return ss
}

// OnDone names the event handler, and its context, to schedule when the
// routers have converged. The handler's data argument is the *Result.
func (ss *StepScheduler) OnDone(cxt any, hdlr evtm.EventHandlerFunction) {
	ss.doneCxt = cxt
	ss.onDone = hdlr
}

// Start schedules the first step on evtMgr, one interval from now.
// The driver's step times are taken from evtMgr's clock until the run finishes.
func (ss *StepScheduler) Start(evtMgr *evtm.EventManager) {
	ss.prevNow = ss.driver.now
	ss.driver.now = evtMgr.CurrentSeconds
	evtMgr.Schedule(ss, nil, stepEvent, vrtime.SecondsToTime(ss.interval))
}

// Result returns the termination report once the run has finished, and nil before then
func (ss *StepScheduler) Result() (*Result, error) {
	return ss.result, ss.err
}

// stepEvent is the event handler that runs one step and schedules the next
func stepEvent(evtMgr *evtm.EventManager, context any, data any) any {
	ss := context.(*StepScheduler)
	d := ss.driver

	rep, err := d.Step()
	if err == nil && !rep.Converged && d.cfg.MaxSteps > 0 && d.step >= d.cfg.MaxSteps {
		err = ErrStepLimit
	}
	if err != nil || rep.Converged {
		ss.result = d.Result()
		ss.err = err
		d.now = ss.prevNow
		if ss.onDone != nil {
			evtMgr.Schedule(ss.doneCxt, ss.result, ss.onDone, vrtime.SecondsToTime(0.0))
		}
		return nil
	}

	evtMgr.Schedule(ss, nil, stepEvent, vrtime.SecondsToTime(ss.interval))
	return nil
}

// unboundedLimit is the latest virtual time the event manager can represent
// with room to spare, used when a run has no time limit
var unboundedLimit = vrtime.TicksToSeconds(math.MaxInt64 / 2)

// RunInVirtualTime runs d to convergence on a fresh event manager, one step every interval
// seconds of virtual time, stopping at limit seconds if convergence has not happened by then.
// A limit that is zero, negative or infinite leaves the step limit of the
// configuration as the only bound.
func RunInVirtualTime(d *Driver, interval, limit float64) (*Result, error) {
	if limit <= 0 || math.IsInf(limit, 1) || limit > unboundedLimit {
		limit = unboundedLimit
	}
	evtMgr := evtm.New()
	ss := CreateStepScheduler(d, interval)
	ss.Start(evtMgr)
	evtMgr.Run(limit)

	rslt, err := ss.Result()
	if rslt == nil && err == nil {
		d.now = ss.prevNow
		return d.Result(), ErrTimeLimit
	}
	return rslt, err
}
