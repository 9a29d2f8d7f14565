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

// Package dataset 把特徵矩陣 X 與標籤向量 Y 綁成一組訓練資料，
// 並提供切分（train/valid、k-fold）與文件載入。
package dataset

import (
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/linalg"
	"github.com/zintix-labs/logitlab/logit"
	"github.com/zintix-labs/logitlab/sdk/core"
	"gonum.org/v1/gonum/mat"
)

const InterceptName = "intercept"

// Dataset 一組已對齊的樣本：X 的第 i 列對應 Y 的第 i 個標籤。
type Dataset struct {
	Names []string // 欄位名稱，可為空
	X     *mat.Dense
	Y     *mat.VecDense
}

// Fold 一次交叉驗證的切分。
type Fold struct {
	Train *Dataset
	Valid *Dataset
}

// New 驗證維度後建立 Dataset（不複製）。
func New(x *mat.Dense, y *mat.VecDense, names ...string) (*Dataset, error) {
	if x == nil || y == nil {
		return nil, errs.Kindf(errs.TypeArgument, "dataset needs both X and Y")
	}
	if err := linalg.CheckMatrix(x); err != nil {
		return nil, err
	}
	if err := linalg.CheckVector(y); err != nil {
		return nil, err
	}
	if err := linalg.CheckMatching(y, x); err != nil {
		return nil, err
	}
	if _, c := x.Dims(); len(names) != 0 && len(names) != c {
		return nil, errs.Kindf(errs.DimensionMismatch, "%d feature names for %d columns", len(names), c)
	}
	return &Dataset{Names: names, X: x, Y: y}, nil
}

// FromRows 由巢狀切片與標籤建立 Dataset（複製資料）。
func FromRows(rows [][]float64, labels []float64, names ...string) (*Dataset, error) {
	x, err := linalg.FromRows(rows)
	if err != nil {
		return nil, err
	}
	y, err := linalg.VectorOf(labels)
	if err != nil {
		return nil, err
	}
	return New(x, y, names...)
}

// Len 樣本數。
func (d *Dataset) Len() int { return d.Y.Len() }

// Features 特徵欄數（含截距欄）。
func (d *Dataset) Features() int {
	_, c := d.X.Dims()
	return c
}

// WithIntercept 回傳左側補上常數 1 欄的新 Dataset。
func (d *Dataset) WithIntercept() *Dataset {
	var names []string
	if len(d.Names) != 0 {
		names = append([]string{InterceptName}, d.Names...)
	}
	return &Dataset{Names: names, X: linalg.WithIntercept(d.X), Y: mat.VecDenseCopyOf(d.Y)}
}

// Subset 依索引取出樣本（複製）。
func (d *Dataset) Subset(idx []int) *Dataset {
	c := d.Features()
	x := mat.NewDense(len(idx), c, nil)
	y := mat.NewVecDense(len(idx), nil)
	for i, j := range idx {
		x.SetRow(i, mat.Row(nil, j, d.X))
		y.SetVec(i, d.Y.AtVec(j))
	}
	return &Dataset{Names: d.Names, X: x, Y: y}
}

// Split 打亂後依 ratio 切出訓練集與驗證集，兩邊都至少一筆。
func (d *Dataset) Split(ratio float64, c *core.Core) (train, valid *Dataset, err error) {
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, errs.Kindf(errs.InvalidArgument, "split ratio must be in (0,1), got %v", ratio)
	}
	n := d.Len()
	cut := int(ratio * float64(n))
	if cut < 1 || cut >= n {
		return nil, nil, errs.Kindf(errs.InvalidArgument, "split ratio %v leaves an empty side for %d rows", ratio, n)
	}
	perm := c.Perm(n)
	return d.Subset(perm[:cut]), d.Subset(perm[cut:]), nil
}

// Folds 打亂後切成 k 份，第 i 份作驗證、其餘作訓練。
// 份大小最多相差一筆。
func (d *Dataset) Folds(k int, c *core.Core) ([]Fold, error) {
	n := d.Len()
	if k < 2 || k > n {
		return nil, errs.Kindf(errs.InvalidArgument, "folds must be in [2,%d], got %d", n, k)
	}
	perm := c.Perm(n)
	out := make([]Fold, k)
	for i := range k {
		lo, hi := i*n/k, (i+1)*n/k
		train := make([]int, 0, n-(hi-lo))
		train = append(train, perm[:lo]...)
		train = append(train, perm[hi:]...)
		out[i] = Fold{Train: d.Subset(train), Valid: d.Subset(perm[lo:hi])}
	}
	return out, nil
}

// Signed 回傳標籤轉為 {-1,+1} 的複本。
func (d *Dataset) Signed() (*Dataset, error) {
	y, err := logit.SignedLabels(d.Y)
	if err != nil {
		return nil, err
	}
	return &Dataset{Names: d.Names, X: d.X, Y: y}, nil
}

// Binary 回傳標籤轉為 {0,1} 的複本（-1 視為 0）。
func (d *Dataset) Binary() (*Dataset, error) {
	y := mat.NewVecDense(d.Len(), nil)
	for i := range d.Len() {
		switch v := d.Y.AtVec(i); v {
		case 0, -1:
		case 1:
			y.SetVec(i, 1)
		default:
			return nil, errs.Kindf(errs.InvalidArgument, "label %v at index %d is not one of {0,1} or {-1,+1}", v, i)
		}
	}
	return &Dataset{Names: d.Names, X: d.X, Y: y}, nil
}
