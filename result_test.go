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

import "testing"

func TestCombineStates(t *testing.T) {
	cases := []struct {
		a, b, want ResultState
	}{
		{Valid, Valid, Valid},
		{Valid, InvalidBelowMinimumFlow, InvalidBelowMinimumFlow},
		{InvalidBelowMinimumFlow, InvalidCapacityExceeded, InvalidCapacityExceeded},
		{InvalidAboveMaximumSpeed, InvalidBelowMinimumSpeed, InvalidAboveMaximumSpeed},
		{InvalidCapacityExceeded, InvalidFluidProperties, InvalidFluidProperties},
		{InvalidFluidProperties, Valid, InvalidFluidProperties},
	}
	for _, c := range cases {
		if got := combineStates(c.a, c.b); got != c.want {
			t.Errorf("combineStates(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
		// Combination is symmetric.
		if got := combineStates(c.b, c.a); got != c.want {
			t.Errorf("combineStates(%v, %v) = %v, want %v", c.b, c.a, got, c.want)
		}
	}
}

func TestResultStateIsValid(t *testing.T) {
	if !Valid.IsValid() {
		t.Error("Valid reported invalid")
	}
	for _, s := range []ResultState{
		InvalidCapacityExceeded, InvalidBelowMinimumFlow, InvalidAboveMaximumSpeed,
		InvalidBelowMinimumSpeed, InvalidFluidProperties,
	} {
		if s.IsValid() {
			t.Errorf("%v reported valid", s)
		}
	}
}

func TestTrainResultIsValid(t *testing.T) {
	r := TrainResult{
		State:  Valid,
		Stages: []StageResult{{State: Valid}, {State: Valid}},
	}
	if !r.IsValid() {
		t.Error("all-valid result reported invalid")
	}
	r.Stages[1].State = InvalidBelowMinimumFlow
	if r.IsValid() {
		t.Error("result with an invalid stage reported valid")
	}
	r.Stages[1].State = Valid
	r.State = InvalidAboveMaximumSpeed
	if r.IsValid() {
		t.Error("result with an invalid train state reported valid")
	}
}
