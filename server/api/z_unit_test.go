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

package api_test

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/logitlab/dto"
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/server/api"
	"github.com/zintix-labs/logitlab/server/httperr"
	"github.com/zintix-labs/logitlab/server/logger"
	"github.com/zintix-labs/logitlab/server/netsvr"
	"github.com/zintix-labs/logitlab/server/svrcfg"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	sCfg := &svrcfg.SvrCfg{Log: logger.NewDefaultLogger(logger.ModeSilence), MaxRows: 100, MaxWorkers: 2}
	if err := sCfg.Valid(); err != nil {
		t.Fatalf("svrcfg: %v", err)
	}
	svr := netsvr.NewChiServer(":0")
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		t.Fatalf("routes: %v", err)
	}
	return svr.Handler()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

const fast = `"setting": {"learning_rate": 0.1, "regularization": 0.01, "max_steps": 20000, "convergence_threshold": 1e-7}`

func TestIndexAndHealth(t *testing.T) {
	h := newHandler(t)
	if rec := do(h, http.MethodGet, "/", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/fit") {
		t.Fatalf("index got %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("healthz got %d", rec.Code)
	}
}

func TestSetting(t *testing.T) {
	rec := do(newHandler(t), http.MethodGet, "/v1/setting", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	got := decode[dto.SettingResponse](t, rec)
	if *got.Setting != *optimizer.DefaultSetting() {
		t.Fatalf("setting got %+v", got.Setting)
	}
}

func TestFit(t *testing.T) {
	body := `{"x": [[-2], [-1], [-0.5], [0.5], [1], [2]], "y": [0, 0, 1, 0, 1, 1], "intercept": true, "seed": 5, ` + fast + `}`
	rec := do(newHandler(t), http.MethodPost, "/v1/fit", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[struct {
		Seed   int64 `json:"seed"`
		Report struct {
			State        string
			Coefficients []float64
			TrainError   float64
		} `json:"report"`
	}](t, rec)
	if got.Seed != 5 || got.Report.State != "converged" || len(got.Report.Coefficients) != 2 {
		t.Fatalf("unexpected response %+v", got)
	}
	if math.Abs(got.Report.TrainError-2.0/6.0) > 1e-12 {
		t.Fatalf("train error got %v", got.Report.TrainError)
	}
}

func TestFitErrors(t *testing.T) {
	h := newHandler(t)
	cases := []struct {
		name string
		body string
		code int
		kind string
	}{
		{
			name: "separable data",
			body: `{"x": [[-2], [-1], [1], [2]], "y": [0, 0, 1, 1], "intercept": true, "seed": 1,
				"setting": {"learning_rate": 0.1, "regularization": 0, "max_steps": 50, "convergence_threshold": 1e-9}}`,
			code: http.StatusUnprocessableEntity,
			kind: "non_convergence",
		},
		{
			name: "ragged rows",
			body: `{"x": [[1, 2], [3]], "y": [0, 1]}`,
			code: http.StatusBadRequest,
			kind: "dimension_mismatch",
		},
		{
			name: "bad label",
			body: `{"x": [[1], [2]], "y": [0, 3]}`,
			code: http.StatusBadRequest,
			kind: "invalid_argument",
		},
		{
			name: "bad setting",
			body: `{"x": [[1], [2]], "y": [0, 1], "setting": {"max_steps": 0}}`,
			code: http.StatusBadRequest,
			kind: "invalid_argument",
		},
	}
	for _, c := range cases {
		rec := do(h, http.MethodPost, "/v1/fit", c.body)
		if rec.Code != c.code {
			t.Fatalf("%s: status %d want %d: %s", c.name, rec.Code, c.code, rec.Body.String())
		}
		if b := decode[httperr.Body](t, rec); b.Kind != c.kind {
			t.Fatalf("%s: kind %q want %q", c.name, b.Kind, c.kind)
		}
	}
}

func TestRowLimit(t *testing.T) {
	rows := make([]string, 101)
	labels := make([]string, 101)
	for i := range rows {
		rows[i] = fmt.Sprintf("[%d]", i)
		labels[i] = fmt.Sprintf("%d", i%2)
	}
	body := `{"x": [` + strings.Join(rows, ",") + `], "y": [` + strings.Join(labels, ",") + `]}`
	if rec := do(newHandler(t), http.MethodPost, "/v1/fit", body); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestPredict(t *testing.T) {
	rec := do(newHandler(t), http.MethodPost, "/v1/predict", `{"coefficients": [0, 1], "x": [[-1], [0], [2]], "intercept": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[dto.PredictResponse](t, rec)
	if fmt.Sprint(got.Labels) != "[0 0 1]" || got.Probabilities[1] != 0.5 {
		t.Fatalf("got %+v", got)
	}
	rec = do(newHandler(t), http.MethodPost, "/v1/predict", `{"coefficients": [0, 1, 2], "x": [[1]], "intercept": true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("mismatched coefficients got %d", rec.Code)
	}
}

func TestError(t *testing.T) {
	body := `{"coefficients": [1, 1], "x": [[0, 0], [0, 0], [0, 0], [0, 0], [0, 0]], "y": [0, 1, 0, 1, 0]}`
	rec := do(newHandler(t), http.MethodPost, "/v1/error", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[dto.ErrorResponse](t, rec)
	if got.Error != 0.4 || got.Rows != 5 {
		t.Fatalf("got %+v", got)
	}
}

func TestCrossVal(t *testing.T) {
	var rows, labels []string
	for i := range 30 {
		x := -2 + 4*float64(i)/29
		l := 0
		if x > 0 {
			l = 1
		}
		if i%5 == 0 {
			l = 1 - l
		}
		rows = append(rows, fmt.Sprintf("[%g]", x))
		labels = append(labels, fmt.Sprint(l))
	}
	body := `{"x": [` + strings.Join(rows, ",") + `], "y": [` + strings.Join(labels, ",") + `], "intercept": true,
		"folds": 3, "workers": 8, "seed": 2, ` + fast + `}`
	rec := do(newHandler(t), http.MethodPost, "/v1/crossval", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[struct {
		Report struct {
			K         int
			Converged int
			Folds     []json.RawMessage
		} `json:"report"`
	}](t, rec)
	if got.Report.K != 3 || got.Report.Converged != 3 || len(got.Report.Folds) != 3 {
		t.Fatalf("got %+v", got.Report)
	}
}

func TestReportFormats(t *testing.T) {
	h := newHandler(t)
	body := `{"x": [[-2], [-1], [-0.5], [0.5], [1], [2]], "y": [0, 0, 1, 0, 1, 1], "intercept": true, "seed": 5, ` + fast + `}`

	rec := do(h, http.MethodPost, "/v1/fit?format=text", body)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("text got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Fit Report") || !strings.Contains(rec.Body.String(), "w[0]") {
		t.Fatalf("text table missing: %s", rec.Body.String())
	}
	if got := rec.Header().Get("X-Seed"); got != "5" {
		t.Fatalf("X-Seed got %q", got)
	}

	rec = do(h, http.MethodPost, "/v1/fit?format=YAML", body)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/yaml" {
		t.Fatalf("yaml got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "State: converged") {
		t.Fatalf("yaml body: %s", rec.Body.String())
	}

	rec = do(h, http.MethodPost, "/v1/crossval?format=xml", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown format got %d", rec.Code)
	}
	if got := decode[httperr.Body](t, rec); got.Kind != "invalid_argument" {
		t.Fatalf("kind got %q", got.Kind)
	}
}

func TestCompressedResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/setting", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "gzip" || rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("headers got %v", rec.Header())
	}
}
