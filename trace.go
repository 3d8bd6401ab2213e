package dvsim

// trace.go gathers a record of a simulation run, step by step, for
// analysis after the run

import (
	"github.com/google/uuid"
	"github.com/iti/evt/vrtime"
	"golang.org/x/exp/slices"
)

// StepTrace records one step. Only the tables that changed in the
// step are included.
type StepTrace struct {
	Step     int     `json:"step" yaml:"step"`
	Time     float64 `json:"time" yaml:"time"`         // time in float64
	Ticks    int64   `json:"ticks" yaml:"ticks"`       // ticks variable of time
	Priority int64   `json:"priority" yaml:"priority"` // priority field of time-stamp
	Delta    int     `json:"delta" yaml:"delta"`
	Drops    int64   `json:"drops" yaml:"drops"`

	// tables changed in this step, indexed by router id
	Changed map[int]Table `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// TraceManager gathers information about a simulation model and an execution of that model
type TraceManager struct {
	// experiment uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of experiment
	ExpName string `json:"expname" yaml:"expname"`

	// identifies this execution among others of the same experiment
	RunID string `json:"runid" yaml:"runid"`

	// text name associated with each router id
	NameByID map[int]string `json:"namebyid" yaml:"namebyid"`

	// tables before the first step
	Initial []Table `json:"initial" yaml:"initial"`

	// all trace records for this experiment
	Traces []StepTrace `json:"traces" yaml:"traces"`

	// termination report, set by Finish
	Result *Result `json:"result,omitempty" yaml:"result,omitempty"`

	last []Table
}

// CreateTraceManager is a constructor.  It saves the name of the experiment
// and a flag indicating whether the trace manager is active.  By testing this
// flag we can inhibit the activity of gathering a trace when we don't want it,
// while embedding calls to its methods everywhere we need them
func CreateTraceManager(expName string, active bool) *TraceManager {
	tm := new(TraceManager)
	tm.InUse = active
	tm.ExpName = expName
	tm.RunID = uuid.NewString()
	tm.NameByID = make(map[int]string)
	tm.Traces = make([]StepTrace, 0)
	return tm
}

// Active tells the caller whether the Trace Manager is actively being used
func (tm *TraceManager) Active() bool {
	return tm.InUse
}

// Attach records the router names and starting tables of d and
// returns the Observer that records each step
func (tm *TraceManager) Attach(d *Driver) Observer {
	if tm.InUse {
		for idx, name := range d.Topology().NodeNames() {
			tm.NameByID[idx] = name
		}
		tm.Initial = d.Tables()
		tm.last = tm.Initial
	}
	return func(rep StepReport) {
		tm.AddStep(vrtime.SecondsToTime(rep.Time), rep)
	}
}

// AddStep creates a record of the step described by rep at virtual time vrt, and stores it
func (tm *TraceManager) AddStep(vrt vrtime.Time, rep StepReport) {

	// return if we aren't using the trace manager
	if !tm.InUse {
		return
	}

	st := StepTrace{Step: rep.Step, Time: vrt.Seconds(), Ticks: vrt.Ticks(), Priority: vrt.Pri(),
		Delta: rep.Delta, Drops: rep.Drops}

	for idx, tbl := range rep.Tables {
		if idx < len(tm.last) && slices.Equal(tm.last[idx], tbl) {
			continue
		}
		if st.Changed == nil {
			st.Changed = make(map[int]Table)
		}
		st.Changed[idx] = tbl
	}
	tm.last = rep.Tables
	tm.Traces = append(tm.Traces, st)
}

// Finish saves the termination report
func (tm *TraceManager) Finish(rslt *Result) {
	if tm.InUse {
		tm.Result = rslt
	}
}

// WriteToFile stores the trace to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (tm *TraceManager) WriteToFile(filename string) (bool, error) {
	if !tm.InUse {
		return false, nil
	}
	if err := writeDesc(filename, tm); err != nil {
		return false, err
	}
	return true, nil
}

// ReadTraceManager deserializes a trace written by WriteToFile
func ReadTraceManager(filename string, useYAML bool, dict []byte) (*TraceManager, error) {
	tm := TraceManager{}
	if err := readDesc(filename, useYAML, dict, &tm); err != nil {
		return nil, err
	}
	return &tm, nil
}
