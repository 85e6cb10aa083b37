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
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/flowmodel/gascomp"
)

func testResults() []gascomp.StepResult {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []gascomp.StepResult{
		{
			Time: t0,
			Point: gascomp.OperatingPoint{
				Rate: 3e6, SuctionPressure: 50, DischargePressure: 150,
				InletTemperature: 300,
			},
			Result: gascomp.TrainResult{
				Stages: []gascomp.StageResult{
					{InletPressure: 50, OutletPressure: 86.5, ActualRate: 2326.6,
						ChartRate: 2326.6, Head: 80600, Efficiency: 0.75, Power: 2.54},
					{InletPressure: 86.5, OutletPressure: 150, ActualRate: 1220,
						ChartRate: 1220, Head: 80400, Efficiency: 0.75, Power: 2.53},
				},
				Power:             5.07,
				Speed:             0.955,
				DischargePressure: 150,
			},
			Fuel: 87000,
		},
		{
			Time: t0.Add(time.Hour),
			Result: gascomp.TrainResult{
				Stages:            []gascomp.StageResult{{State: gascomp.InvalidCapacityExceeded}},
				State:             gascomp.InvalidCapacityExceeded,
				DischargePressure: 115,
			},
		},
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, testResults()); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "time" || rows[0][5] != "power_MW" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2024-01-01T00:00:00Z" {
		t.Errorf("time cell = %q", rows[1][0])
	}
	if rows[1][1] != "3000000" || rows[1][2] != "50" {
		t.Errorf("rate and suction cells = %q, %q", rows[1][1], rows[1][2])
	}
	if rows[1][3] != "true" || rows[2][3] != "false" {
		t.Errorf("valid cells = %q, %q", rows[1][3], rows[2][3])
	}
	if rows[2][4] != "capacity exceeded" {
		t.Errorf("state cell = %q", rows[2][4])
	}
	if rows[1][5] != "5.07" {
		t.Errorf("power cell = %q", rows[1][5])
	}
	if rows[1][9] != "87000" {
		t.Errorf("fuel cell = %q", rows[1][9])
	}
}

func TestWriteStageReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStageReport(&buf, testResults()); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Header plus two stages for the first step and one for the second.
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[1][1] != "0" || rows[2][1] != "1" {
		t.Errorf("stage index cells = %q, %q", rows[1][1], rows[2][1])
	}
	if rows[2][5] != "150" {
		t.Errorf("outlet cell = %q", rows[2][5])
	}
	if rows[3][3] != "capacity exceeded" {
		t.Errorf("state cell = %q", rows[3][3])
	}
}
