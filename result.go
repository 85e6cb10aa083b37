/*
Copyright © 2026 the GasComp authors.
This file is part of GasComp.

GasComp is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GasComp is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GasComp.  If not, see <http://www.gnu.org/licenses/>.
*/

package gascomp

// ResultState classifies the outcome of evaluating an operating point.
// Infeasibility is data, not an error: an invalid state never aborts a
// time series.
type ResultState int

const (
	// Valid means the requested duty is met within the equipment
	// envelope.
	Valid ResultState = iota
	// InvalidCapacityExceeded means the chart cannot deliver the
	// required head or rate, or a solver failed to converge within
	// its iteration cap.
	InvalidCapacityExceeded
	// InvalidBelowMinimumFlow means an operating point fell below the
	// minimum-flow (surge-control) boundary. The solved operating
	// point is still reported; the flag is informational.
	InvalidBelowMinimumFlow
	// InvalidAboveMaximumSpeed means the requested discharge pressure
	// is reachable only above the chart's maximum speed.
	InvalidAboveMaximumSpeed
	// InvalidBelowMinimumSpeed means the train overshoots the
	// requested discharge pressure even at minimum speed and no
	// pressure control strategy absorbed the excess.
	InvalidBelowMinimumSpeed
	// InvalidFluidProperties means the fluid property service failed
	// for this evaluation after retries were exhausted.
	InvalidFluidProperties
)

func (s ResultState) String() string {
	switch s {
	case Valid:
		return "valid"
	case InvalidCapacityExceeded:
		return "capacity exceeded"
	case InvalidBelowMinimumFlow:
		return "below minimum flow"
	case InvalidAboveMaximumSpeed:
		return "above maximum speed"
	case InvalidBelowMinimumSpeed:
		return "below minimum speed"
	case InvalidFluidProperties:
		return "fluid properties unavailable"
	default:
		return "unknown"
	}
}

// IsValid reports whether the state represents a met duty.
func (s ResultState) IsValid() bool { return s == Valid }

// severity orders states so that combining a set of stage states yields
// the most serious one. Below-minimum-flow ranks lowest among the
// invalid states because it is informational.
func (s ResultState) severity() int {
	switch s {
	case Valid:
		return 0
	case InvalidBelowMinimumFlow:
		return 1
	case InvalidBelowMinimumSpeed:
		return 2
	case InvalidAboveMaximumSpeed:
		return 3
	case InvalidCapacityExceeded:
		return 4
	case InvalidFluidProperties:
		return 5
	default:
		return 6
	}
}

func combineStates(a, b ResultState) ResultState {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

// StageResult is the outcome of evaluating one compression stage.
type StageResult struct {
	InletPressure  float64 // [bara], after the stage pressure drop
	OutletPressure float64 // [bara]

	// ActualRate is the net volumetric flow through the stage at
	// inlet conditions [m³/h]. ChartRate additionally includes
	// recirculated flow and is the rate the chart was queried at.
	ActualRate float64
	ChartRate  float64

	Head       float64 // polytropic head produced [J/kg]
	Efficiency float64 // polytropic efficiency
	Power      float64 // shaft power [MW]

	State ResultState
}

// TrainResult is the outcome of evaluating one operating point against
// one compressor train. It is created complete and never mutated, so
// evaluating the same point against the same train twice yields
// identical results.
type TrainResult struct {
	Stages []StageResult

	Power float64 // total shaft power [MW]

	// Speed is the resolved shaft speed [rpm], or 0 for trains
	// without a shared speed.
	Speed float64

	// DischargePressure is the pressure achieved at the train outlet
	// [bara].
	DischargePressure float64

	// ChokeDrop is pressure dissipated by an upstream or downstream
	// choke [bar], when a choking control strategy resolved the
	// point.
	ChokeDrop float64

	State ResultState
}

// IsValid reports whether the train met the requested duty. It is the
// logical AND of the stage validities with the train-level state.
func (r *TrainResult) IsValid() bool {
	if !r.State.IsValid() {
		return false
	}
	for i := range r.Stages {
		if !r.Stages[i].State.IsValid() {
			return false
		}
	}
	return true
}
