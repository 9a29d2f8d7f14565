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

package linalg

import (
	"math"
	"reflect"

	"github.com/zintix-labs/logitlab/errs"
	"gonum.org/v1/gonum/mat"
)

// CheckVector 檢查每個參數都是可用的向量：
//   - nil（含 typed nil 指標） -> TypeArgument
//   - 長度為 0              -> EmptyInput
func CheckVector(vs ...mat.Vector) error {
	for i, v := range vs {
		if isNil(v) {
			return errs.Kindf(errs.TypeArgument, "argument needs to be a vector, failed at index %d", i)
		}
		if v.Len() == 0 {
			return errs.Kindf(errs.EmptyInput, "empty vector, failed at index %d", i)
		}
	}
	return nil
}

// CheckMatrix 檢查每個參數都是可用的矩陣（非 nil、非零尺寸）。
func CheckMatrix(ms ...mat.Matrix) error {
	for i, m := range ms {
		if isNil(m) {
			return errs.Kindf(errs.TypeArgument, "argument needs to be a matrix, failed at index %d", i)
		}
		if e, ok := m.(interface{ IsEmpty() bool }); ok && e.IsEmpty() {
			return errs.Kindf(errs.EmptyInput, "empty matrix, failed at index %d", i)
		}
		r, c := m.Dims()
		if r == 0 || c == 0 {
			return errs.Kindf(errs.EmptyInput, "empty matrix (%dx%d), failed at index %d", r, c, i)
		}
	}
	return nil
}

// CheckEqualLength 要求所有向量長度一致；呼叫前應先通過 CheckVector。
func CheckEqualLength(vs ...mat.Vector) error {
	if len(vs) == 0 {
		return nil
	}
	n := vs[0].Len()
	for i, v := range vs {
		if v.Len() != n {
			return errs.Kindf(errs.DimensionMismatch,
				"vectors must have the same number of elements (%d != %d), failed at index %d", v.Len(), n, i)
		}
	}
	return nil
}

// CheckMatching 要求 y 的長度等於 x 的列數（每筆資料一個標籤）。
func CheckMatching(y mat.Vector, x mat.Matrix) error {
	r, _ := x.Dims()
	if y.Len() != r {
		return errs.Kindf(errs.DimensionMismatch, "mismatching input dimensions: %d labels for %d rows", y.Len(), r)
	}
	return nil
}

// CheckColumns 要求 x 的欄數等於 w 的長度。
func CheckColumns(w mat.Vector, x mat.Matrix) error {
	_, c := x.Dims()
	if w.Len() != c {
		return errs.Kindf(errs.DimensionMismatch, "row length %d does not match %d coefficients", c, w.Len())
	}
	return nil
}

// CheckTrainingSet 是 (w, y, x) 三元組的完整前置檢查。
func CheckTrainingSet(w, y mat.Vector, x mat.Matrix) error {
	if err := CheckVector(w, y); err != nil {
		return err
	}
	if err := CheckMatrix(x); err != nil {
		return err
	}
	if err := CheckColumns(w, x); err != nil {
		return err
	}
	return CheckMatching(y, x)
}

// CheckFinite 拒絕 NaN 與 ±Inf。
func CheckFinite(z float64) error {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return errs.Kindf(errs.InvalidArgument, "value must be a finite number, got %v", z)
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
