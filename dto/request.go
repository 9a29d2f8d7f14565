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

package dto

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zintix-labs/logitlab/dataset"
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/linalg"
	"github.com/zintix-labs/logitlab/optimizer"
	"gonum.org/v1/gonum/mat"
)

// DefaultBodyLimit POST body 的預設上限（8 MiB）。
const DefaultBodyLimit int64 = 8 << 20

// SettingPatch 請求中可覆寫的優化器設定；省略的欄位沿用 server 預設。
type SettingPatch struct {
	LearningRate         *float64 `json:"learning_rate,omitempty"`
	Regularization       *float64 `json:"regularization,omitempty"`
	MaxSteps             *int     `json:"max_steps,omitempty"`
	ConvergenceThreshold *float64 `json:"convergence_threshold,omitempty"`
	WarmupFraction       *float64 `json:"warmup_fraction,omitempty"`
}

// Apply 把覆寫套在 base 的複本上並驗證。p 為 nil 時回傳 base 的複本。
func (p *SettingPatch) Apply(base *optimizer.Setting) (*optimizer.Setting, error) {
	s := base.Clone()
	if p != nil {
		if p.LearningRate != nil {
			s.LearningRate = *p.LearningRate
		}
		if p.Regularization != nil {
			s.Regularization = *p.Regularization
		}
		if p.MaxSteps != nil {
			s.MaxSteps = *p.MaxSteps
		}
		if p.ConvergenceThreshold != nil {
			s.ConvergenceThreshold = *p.ConvergenceThreshold
		}
		if p.WarmupFraction != nil {
			s.WarmupFraction = *p.WarmupFraction
		}
	}
	if err := s.Valid(); err != nil {
		return nil, err
	}
	return s, nil
}

// Samples 樣本矩陣與標籤（標籤為 {0,1} 或 {-1,+1}）。
type Samples struct {
	X         [][]float64 `json:"x"`
	Y         []float64   `json:"y"`
	Features  []string    `json:"features,omitempty"`
	Intercept bool        `json:"intercept,omitempty"` // 是否在最左側補上常數 1 欄
}

// Dataset 轉成 dataset.Dataset。
func (s *Samples) Dataset() (*dataset.Dataset, error) {
	doc := dataset.Document{Features: s.Features, Intercept: s.Intercept, Rows: s.X, Labels: s.Y}
	return doc.Dataset()
}

type FitRequest struct {
	Samples
	Seed    *int64        `json:"seed,omitempty"` // 省略時由 server 產生，並回傳在結果中
	Setting *SettingPatch `json:"setting,omitempty"`
}

type CrossValRequest struct {
	Samples
	Folds   int           `json:"folds"`
	Workers int           `json:"workers,omitempty"`
	Seed    *int64        `json:"seed,omitempty"`
	Setting *SettingPatch `json:"setting,omitempty"`
}

// ModelRequest 以既有係數推論。
type ModelRequest struct {
	Coefficients []float64   `json:"coefficients"`
	X            [][]float64 `json:"x"`
	Y            []float64   `json:"y,omitempty"` // 只有 /v1/error 需要
	Intercept    bool        `json:"intercept,omitempty"`
}

// Model 轉成係數向量與樣本矩陣（含截距欄）。
func (m *ModelRequest) Model() (*mat.VecDense, *mat.Dense, error) {
	w, err := linalg.VectorOf(m.Coefficients)
	if err != nil {
		return nil, nil, errs.Wrap(err, "invalid coefficients")
	}
	x, err := linalg.FromRows(m.X)
	if err != nil {
		return nil, nil, errs.Wrap(err, "invalid x")
	}
	if m.Intercept {
		x = linalg.WithIntercept(x)
	}
	return w, x, nil
}

// Labels 轉成標籤向量。
func (m *ModelRequest) Labels() (*mat.VecDense, error) {
	y, err := linalg.VectorOf(m.Y)
	if err != nil {
		return nil, errs.Wrap(err, "invalid y")
	}
	return y, nil
}

// Decode 把 JSON body 解碼成 T。
//   - body 以 limit 限制大小（<= 0 時使用 DefaultBodyLimit）
//   - 開啟 DisallowUnknownFields，未知欄位直接拒絕
//   - body 之後不得有其他 JSON 值
func Decode[T any](w http.ResponseWriter, r *http.Request, limit int64) (*T, error) {
	if r == nil || r.Body == nil {
		return nil, errs.Kindf(errs.EmptyInput, "empty request body")
	}
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	v := new(T)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Kindf(errs.EmptyInput, "empty request body")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.Kindf(errs.InvalidArgument, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errs.Kindf(errs.InvalidArgument, "invalid json: %v", err)
	}
	if dec.More() {
		return nil, errs.Kindf(errs.InvalidArgument, "invalid json: unexpected data after body")
	}
	return v, nil
}
