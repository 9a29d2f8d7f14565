// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/logitlab/dataset"
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/report"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

func fitReport(t *testing.T) *report.FitReport {
	t.Helper()
	ds, err := dataset.FromRows([][]float64{{1, 1}, {1, -1}, {1, 2}, {1, -2}}, []float64{1, 1, 0, 0}, "bias", "x")
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	res := &optimizer.Result{
		Coefficients: mat.NewVecDense(2, []float64{0, 1}),
		Steps:        42,
		MaxChange:    1e-6,
		Objective:    -2.5,
		State:        optimizer.Converged,
		Elapsed:      1500 * time.Millisecond,
	}
	r, err := report.NewFitReport(res, optimizer.DefaultSetting(), ds)
	if err != nil {
		t.Fatalf("fit report: %v", err)
	}
	return r
}

func TestFitReportMetrics(t *testing.T) {
	r := fitReport(t)
	if r.TrainError != 0.5 || r.Accuracy != 0.5 || r.Rows != 4 || r.State != "converged" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Confusion.TP != 1 || r.Confusion.FN != 1 || r.Confusion.FP != 1 || r.Confusion.TN != 1 {
		t.Fatalf("confusion got %+v", r.Confusion)
	}
	if r.ElapsedSec != 1.5 {
		t.Fatalf("elapsed got %v", r.ElapsedSec)
	}
}

func TestCrossValDone(t *testing.T) {
	r := report.NewCrossValReport(3, 30, 7, optimizer.DefaultSetting())
	r.Folds[0] = report.FoldReport{Fold: 0, ValidError: 0.1, TrainError: 0.05}
	r.Folds[1] = report.FoldReport{Fold: 1, ValidError: 0.3, TrainError: 0.15}
	r.Folds[2] = report.FoldReport{Fold: 2, Err: "not converging"}
	r.Done()
	if r.Converged != 2 {
		t.Fatalf("converged got %d", r.Converged)
	}
	if math.Abs(r.MeanError-0.2) > 1e-12 || math.Abs(r.StdError-math.Sqrt(0.02)) > 1e-12 {
		t.Fatalf("mean/std got %v/%v", r.MeanError, r.StdError)
	}
	if math.Abs(r.MeanTrain-0.1) > 1e-12 {
		t.Fatalf("mean train got %v", r.MeanTrain)
	}
	// 已完成後不再重算
	r.Folds[0].ValidError = 1
	r.Done()
	if math.Abs(r.MeanError-0.2) > 1e-12 {
		t.Fatalf("Done must be idempotent")
	}

	none := report.NewCrossValReport(2, 4, 1, optimizer.DefaultSetting())
	none.Folds[0].Err, none.Folds[1].Err = "x", "y"
	none.Done()
	if none.Converged != 0 || none.MeanError != 0 {
		t.Fatalf("all failed got %+v", none)
	}
}

func TestRenders(t *testing.T) {
	r := fitReport(t)

	var js bytes.Buffer
	rep, _ := report.RenderOf("json")
	if err := r.WriteWith(&js, rep); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if back["Steps"].(float64) != 42 {
		t.Fatalf("json steps got %v", back["Steps"])
	}

	var ym bytes.Buffer
	rep, _ = report.RenderOf("YML")
	if err := r.WriteWith(&ym, rep); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(ym.String(), "Coefficients: [0, 1]") {
		t.Fatalf("coefficients should be flow style:\n%s", ym.String())
	}
	var doc map[string]any
	if err := yaml.Unmarshal(ym.Bytes(), &doc); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}

	if _, err := report.RenderOf("xml"); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("xml got %v", err)
	}
}

func TestStdOutTable(t *testing.T) {
	var buf bytes.Buffer
	fitReport(t).StdOut(&buf)
	out := buf.String()
	for _, want := range []string{"Fit Report", "w.bias", "w.x", "50.00 %", "1/1/1/1", "used: 1.50 seconds"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	cv := report.NewCrossValReport(2, 1200, 3, optimizer.DefaultSetting())
	cv.Folds[0] = report.FoldReport{Fold: 0, ValidError: 0.25, Steps: 1234}
	cv.Folds[1] = report.FoldReport{Fold: 1, Err: "boom"}
	buf.Reset()
	cv.StdOut(&buf)
	out = buf.String()
	for _, want := range []string{"Cross Validation", "1,200", "1 / 2", "25.00 % (1,234 steps)", "failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
