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

// Package linalg 是 gonum/mat 之上的一層薄封裝：
// 建構子與運算都先做維度檢查，回傳 errs.E 而不是讓 gonum panic。
package linalg

import (
	"math"
	"math/rand/v2"

	"github.com/zintix-labs/logitlab/errs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// VectorOf 複製 data 建立向量。
func VectorOf(data []float64) (*mat.VecDense, error) {
	if len(data) == 0 {
		return nil, errs.Kindf(errs.EmptyInput, "vector data is empty")
	}
	return mat.NewVecDense(len(data), append([]float64(nil), data...)), nil
}

// FromRows 以巢狀切片建立矩陣（複製資料）；每列長度必須一致。
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errs.Kindf(errs.EmptyInput, "matrix rows are empty")
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, errs.Kindf(errs.DimensionMismatch, "row %d has %d elements, want %d", i, len(row), c)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}

// Rows 把矩陣攤回巢狀切片（複製）。
func Rows(x mat.Matrix) [][]float64 {
	r, c := x.Dims()
	out := make([][]float64, r)
	for i := range r {
		out[i] = mat.Row(make([]float64, c), i, x)
	}
	return out
}

// Row 取第 i 列；若 x 支援 RowView 則不複製。
func Row(x mat.Matrix, i int) mat.Vector {
	if rv, ok := x.(mat.RowViewer); ok {
		return rv.RowView(i)
	}
	_, c := x.Dims()
	return mat.NewVecDense(c, mat.Row(nil, i, x))
}

// Slice 取向量的原始值（複製）。
func Slice(v mat.Vector) []float64 {
	return mat.Col(make([]float64, v.Len()), 0, v)
}

// Dot 計算 a·b。
func Dot(a, b mat.Vector) (float64, error) {
	if err := CheckVector(a, b); err != nil {
		return 0, err
	}
	if err := CheckEqualLength(a, b); err != nil {
		return 0, err
	}
	return mat.Dot(a, b), nil
}

// MaxAbsDiff 回傳 max_k |a_k - b_k|（L∞ 距離）。
func MaxAbsDiff(a, b mat.Vector) (float64, error) {
	if err := CheckVector(a, b); err != nil {
		return 0, err
	}
	if err := CheckEqualLength(a, b); err != nil {
		return 0, err
	}
	return floats.Distance(Slice(a), Slice(b), math.Inf(1)), nil
}

// Random 產生長度 n、每個元素落在 [0,1) 的均勻亂數向量。
// src 為 nil 時使用 math/rand/v2 的全域來源。
func Random(n int, src rand.Source) (*mat.VecDense, error) {
	if n < 1 {
		return nil, errs.Kindf(errs.InvalidArgument, "size must be at least one, got %d", n)
	}
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}
	data := make([]float64, n)
	for i := range data {
		data[i] = u.Rand()
	}
	return mat.NewVecDense(n, data), nil
}

// WithIntercept 在最左側補上一欄常數 1（偏差項）。
func WithIntercept(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := range r {
		out.Set(i, 0, 1)
		for j := range c {
			out.Set(i, j+1, x.At(i, j))
		}
	}
	return out
}
