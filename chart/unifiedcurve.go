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

package chart

// UnifiedShape is a dimensionless compressor curve family. Rates and
// heads are normalized by the design point (rate 1, head 1 at design
// speed 1); curves at other speeds follow the fan affinity laws (rate
// scales with speed, head with speed squared).
type UnifiedShape struct {
	// Speeds are the normalized shaft speeds the shape is sampled
	// at. The design speed is 1.
	Speeds []float64
	// Rates and Heads sample the design-speed curve. Rates are
	// strictly increasing, heads strictly decreasing.
	Rates []float64
	Heads []float64
}

// Unified is the curve shape used by the generic chart variants.
// The values are domain data for a typical variable-speed-drive
// centrifugal compressor, not model logic; replace them to model a
// different machine family.
var Unified = UnifiedShape{
	Speeds: []float64{0.75, 0.80, 0.85, 0.90, 0.95, 1.00, 1.05},
	Rates:  []float64{0.66, 0.76, 0.86, 0.94, 1.00, 1.06, 1.14, 1.22},
	Heads:  []float64{1.21, 1.17, 1.11, 1.05, 1.00, 0.93, 0.78, 0.58},
}
