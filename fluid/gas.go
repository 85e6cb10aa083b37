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

package fluid

import (
	"fmt"
	"math"
)

// component holds pure-component data for the reference gas model.
type component struct {
	molarMass float64 // [kg/mol]
	kappa     float64 // isentropic exponent at moderate conditions
}

var components = map[string]component{
	"methane":   {16.043e-3, 1.31},
	"ethane":    {30.070e-3, 1.19},
	"propane":   {44.097e-3, 1.13},
	"i-butane":  {58.123e-3, 1.10},
	"n-butane":  {58.123e-3, 1.09},
	"i-pentane": {72.150e-3, 1.08},
	"n-pentane": {72.150e-3, 1.07},
	"n-hexane":  {86.178e-3, 1.06},
	"nitrogen":  {28.014e-3, 1.40},
	"CO2":       {44.010e-3, 1.28},
	"water":     {18.015e-3, 1.33},
}

// GasModel is a simple corresponding-states gas model. It is the
// default property port and the one the tests use; production setups
// inject a port backed by a full equation of state instead.
type GasModel struct{}

// Properties implements the Port interface.
func (GasModel) Properties(pressure, temperature float64, composition Composition) (Properties, error) {
	if pressure <= 0 || temperature <= 0 {
		return Properties{}, fmt.Errorf("fluid: state (%g bara, %g K) is not physical: %w",
			pressure, temperature, ErrUnavailable)
	}
	comp := composition.Normalized()
	if comp == nil {
		return Properties{}, fmt.Errorf("fluid: empty composition: %w", ErrUnavailable)
	}
	// Sum in sorted component order: float addition is not
	// associative, and map iteration order would otherwise make
	// identical compositions return bitwise-different properties.
	var m, kappa float64
	for _, name := range comp.Names() {
		c, ok := components[name]
		if !ok {
			return Properties{}, fmt.Errorf("fluid: unknown component %q: %w", name, ErrUnavailable)
		}
		frac := comp[name]
		m += frac * c.molarMass
		kappa += frac * c.kappa
	}

	// Pressure- and temperature-dependent compressibility,
	// floored to stay physical at extreme pressures.
	z := 1 - 2.5e-3*pressure*(StandardTemperature/temperature)
	z = math.Max(z, 0.35)

	density := pressure * PascalsPerBar * m / (z * UniversalGasConstant * temperature)
	return Properties{
		Density:   density,
		Z:         z,
		Kappa:     kappa,
		MolarMass: m,
	}, nil
}

// StandardDensity returns the density of the composition at standard
// reference conditions [kg/Sm³].
func StandardDensity(p Port, composition Composition) (float64, error) {
	props, err := p.Properties(StandardPressure, StandardTemperature, composition)
	if err != nil {
		return 0, err
	}
	return props.Density, nil
}
