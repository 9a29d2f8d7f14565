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

package dto_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/logitlab/dto"
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/optimizer"
)

func post(body string) (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/fit", strings.NewReader(body))
}

func TestDecodeFitRequest(t *testing.T) {
	w, r := post(`{"x": [[1], [2]], "y": [0, 1], "intercept": true, "seed": 7, "setting": {"max_steps": 10}}`)
	req, err := dto.Decode[dto.FitRequest](w, r, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *req.Seed != 7 || !req.Intercept || len(req.X) != 2 {
		t.Fatalf("decoded %+v", req)
	}
	ds, err := req.Dataset()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	if ds.Features() != 2 || ds.X.At(1, 1) != 2 {
		t.Fatalf("dataset dims %d", ds.Features())
	}
	s, err := req.Setting.Apply(optimizer.DefaultSetting())
	if err != nil || s.MaxSteps != 10 || s.LearningRate != optimizer.DefaultSetting().LearningRate {
		t.Fatalf("setting got %+v err %v", s, err)
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]errs.Kind{
		``:                          errs.EmptyInput,
		`{"x": [[1]], "typo": 1}`:   errs.InvalidArgument,
		`{"x": [[1]]} {"x": [[2]]}`: errs.InvalidArgument,
		`{"x": "not a matrix"}`:     errs.InvalidArgument,
	}
	for body, kind := range cases {
		w, r := post(body)
		if _, err := dto.Decode[dto.FitRequest](w, r, 0); errs.KindOf(err) != kind {
			t.Fatalf("%q: got %v want %s", body, err, kind)
		}
	}
	w, r := post(`{"x": [[1, 2, 3, 4, 5, 6, 7, 8]]}`)
	if _, err := dto.Decode[dto.FitRequest](w, r, 8); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("oversized body got %v", err)
	}
}

func TestSettingPatchValidates(t *testing.T) {
	bad := -1.0
	if _, err := (&dto.SettingPatch{LearningRate: &bad}).Apply(optimizer.DefaultSetting()); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("negative learning rate got %v", err)
	}
	var none *dto.SettingPatch
	s, err := none.Apply(optimizer.DefaultSetting())
	if err != nil || *s != *optimizer.DefaultSetting() {
		t.Fatalf("nil patch got %+v err %v", s, err)
	}
}

func TestModelRequest(t *testing.T) {
	m := &dto.ModelRequest{Coefficients: []float64{0.5, 1}, X: [][]float64{{3}, {4}}, Intercept: true}
	w, x, err := m.Model()
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if r, c := x.Dims(); r != 2 || c != 2 || w.Len() != 2 {
		t.Fatalf("dims %dx%d w=%d", r, c, w.Len())
	}
	if _, err := m.Labels(); !errors.Is(err, errs.ErrEmptyInput) {
		t.Fatalf("missing labels got %v", err)
	}
	m.X = [][]float64{{1}, {1, 2}}
	if _, _, err := m.Model(); !errors.Is(err, errs.ErrDimensionMismatch) {
		t.Fatalf("ragged x got %v", err)
	}
}
