package dvsim

// convergence.go decides when the routing tables have stopped changing

// ConvergenceDetector watches the number of table changes made in each step.
// The only state it keeps is the last step in which something changed.
type ConvergenceDetector struct {
	Threshold          int
	lastStepWithChange int
}

// NewConvergenceDetector is a constructor
func NewConvergenceDetector(threshold int) *ConvergenceDetector {
	return &ConvergenceDetector{Threshold: threshold}
}

// Observe records the delta of step and reports whether the gap since
// the last step with a change has reached the threshold
func (cd *ConvergenceDetector) Observe(step, delta int) bool {
	if delta > 0 {
		cd.lastStepWithChange = step
	}
	return step-cd.lastStepWithChange >= cd.Threshold
}

// LastStepWithChange returns the most recent step that changed a table, 0 if none has
func (cd *ConvergenceDetector) LastStepWithChange() int {
	return cd.lastStepWithChange
}

// ReplayConvergence feeds the per-step deltas, deltas[0] being step 1, to a fresh
// detector and returns the step at which convergence is declared, or 0 and false
// when the stream ends first
func ReplayConvergence(deltas []int, threshold int) (int, bool) {
	cd := NewConvergenceDetector(threshold)
	for idx, delta := range deltas {
		step := idx + 1
		if cd.Observe(step, delta) {
			return step, true
		}
	}
	return 0, false
}
