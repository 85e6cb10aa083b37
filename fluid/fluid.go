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

// Package fluid defines the fluid property service the compressor model
// consumes: given pressure, temperature and composition it supplies the
// density, compressibility and polytropic-exponent information the
// stage calculations need. The equation of state itself is external;
// this package holds the port definition, a bounded-retry wrapper, a
// memoizing cache wrapper and a simple reference gas model.
package fluid

import (
	"errors"
	"fmt"
	"sort"
)

// UniversalGasConstant [J/(mol·K)].
const UniversalGasConstant = 8.314462618

// Standard reference conditions for gas volumes: 15 °C and one
// atmosphere.
const (
	StandardTemperature = 288.15   // K
	StandardPressure    = 1.01325  // bara
	PascalsPerBar       = 100000.0 // Pa/bar
)

// ErrUnavailable is returned when the property service cannot produce a
// result. It marks the owning evaluation invalid; it never aborts a
// run.
var ErrUnavailable = errors.New("fluid: properties unavailable")

// Composition is a gas composition as mole fractions keyed by component
// name. Fractions need not be normalized; consumers normalize.
type Composition map[string]float64

// Normalized returns a copy of the composition with mole fractions
// summing to 1. An empty composition returns nil.
func (c Composition) Normalized() Composition {
	// Sum in sorted name order; summing in map order would make the
	// normalized fractions depend on iteration order in the last bit.
	var sum float64
	for _, k := range c.Names() {
		sum += c[k]
	}
	if sum <= 0 {
		return nil
	}
	o := make(Composition, len(c))
	for k, v := range c {
		o[k] = v / sum
	}
	return o
}

// Names returns the component names in sorted order. Consumers that sum
// over the composition iterate in this order so that identical inputs
// give bit-identical results.
func (c Composition) Names() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Key returns a deterministic string identifying the composition, for
// use as a cache key.
func (c Composition) Key() string {
	var s string
	for _, k := range c.Names() {
		s += fmt.Sprintf("%s:%.12g;", k, c[k])
	}
	return s
}

// Properties holds the fluid state information needed to evaluate a
// compression stage.
type Properties struct {
	Density   float64 // [kg/m³]
	Z         float64 // compressibility factor
	Kappa     float64 // isentropic exponent cp/cv
	MolarMass float64 // [kg/mol]
}

// Port supplies fluid properties at a given state. Implementations must
// be deterministic for identical inputs and safe to call repeatedly
// with the same arguments; they may be called concurrently.
type Port interface {
	// Properties returns the fluid properties at the given pressure
	// [bara] and temperature [K] for the given composition.
	Properties(pressure, temperature float64, composition Composition) (Properties, error)
}
