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

// Package gascomp models the energy demand of oil and gas production
// facility compression equipment. Its core is a multi-stage compressor
// train simulator: given a requested flow rate and boundary pressures
// it determines whether a train of compressor stages on a shared shaft
// can deliver that duty, at what shaft speed, with what recirculation
// or choking, and at what power. Turbine models convert shaft power to
// fuel, and a system allocator distributes flow across parallel trains.
package gascomp

// Version gives the version number of this version of GasComp.
const Version = "1.2.0"

const secondsPerDay = 86400.

// hoursPerDay and related constants convert between the standard-rate
// and mass-rate conventions used throughout: operating point rates are
// standard-condition volumes per day [Sm³/day], internal mass rates are
// [kg/h], and chart rates are actual volumes at stage inlet conditions
// [m³/h].
const hoursPerDay = 24.

// OperatingPoint is one evaluation request against a compressor train:
// the duty the train is asked to deliver at one time step. It is
// immutable per evaluation.
type OperatingPoint struct {
	// Rate is the standard-condition volumetric flow rate [Sm³/day].
	Rate float64
	// SuctionPressure is the pressure available at the train inlet
	// [bara].
	SuctionPressure float64
	// DischargePressure is the requested pressure at the train
	// outlet [bara].
	DischargePressure float64
	// InletTemperature is the temperature of the gas arriving at the
	// train [K]. Stages configured with their own inlet temperature
	// (intercooling) override it from the second stage on.
	InletTemperature float64
	// IntermediatePressure is an optional pressure target at an
	// interior stage boundary [bara]. It is honored only by trains
	// of the multiple-streams-and-pressures variant and ignored
	// otherwise. Zero means no intermediate target.
	IntermediatePressure float64
}
