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

package gascomputil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/flowmodel/gascomp"
)

// WriteReport writes the time series results as CSV. Validity is
// aggregated bottom-up: a step is valid only if the train result and
// every stage result are valid.
func WriteReport(w io.Writer, results []gascomp.StepResult) error {
	cw := csv.NewWriter(w)
	header := []string{"time", "rate_Sm3_per_day", "suction_bara", "valid",
		"state", "power_MW", "speed_rpm", "discharge_bara", "choke_bar",
		"fuel_Sm3_per_day"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("gascomputil: writing report header: %v", err)
	}
	for i := range results {
		r := &results[i]
		row := []string{
			r.Time.Format(time.RFC3339),
			formatFloat(r.Point.Rate),
			formatFloat(r.Point.SuctionPressure),
			strconv.FormatBool(r.Result.IsValid()),
			r.Result.State.String(),
			formatFloat(r.Result.Power),
			formatFloat(r.Result.Speed),
			formatFloat(r.Result.DischargePressure),
			formatFloat(r.Result.ChokeDrop),
			formatFloat(r.Fuel),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("gascomputil: writing report row %d: %v", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStageReport writes per-stage results for every step as CSV.
func WriteStageReport(w io.Writer, results []gascomp.StepResult) error {
	cw := csv.NewWriter(w)
	header := []string{"time", "stage", "valid", "state", "inlet_bara",
		"outlet_bara", "actual_rate_m3_per_h", "chart_rate_m3_per_h",
		"head_J_per_kg", "efficiency", "power_MW"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("gascomputil: writing stage report header: %v", err)
	}
	for i := range results {
		r := &results[i]
		for j := range r.Result.Stages {
			s := &r.Result.Stages[j]
			row := []string{
				r.Time.Format(time.RFC3339),
				strconv.Itoa(j),
				strconv.FormatBool(s.State.IsValid()),
				s.State.String(),
				formatFloat(s.InletPressure),
				formatFloat(s.OutletPressure),
				formatFloat(s.ActualRate),
				formatFloat(s.ChartRate),
				formatFloat(s.Head),
				formatFloat(s.Efficiency),
				formatFloat(s.Power),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("gascomputil: writing stage report row: %v", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
