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

package dataset_test

import (
	"errors"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/logitlab/dataset"
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/sdk/core"
	"gonum.org/v1/gonum/mat"
)

func sample(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	rows := make([][]float64, n)
	labels := make([]float64, n)
	for i := range n {
		rows[i] = []float64{float64(i), float64(-i)}
		labels[i] = float64(i % 2)
	}
	d, err := dataset.FromRows(rows, labels, "a", "b")
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	return d
}

func TestFromRowsValidates(t *testing.T) {
	if _, err := dataset.FromRows([][]float64{{1, 2}, {3}}, []float64{0, 1}); !errors.Is(err, errs.ErrDimensionMismatch) {
		t.Fatalf("ragged rows got %v", err)
	}
	if _, err := dataset.FromRows([][]float64{{1}, {2}}, []float64{0}); !errors.Is(err, errs.ErrDimensionMismatch) {
		t.Fatalf("short labels got %v", err)
	}
	if _, err := dataset.FromRows(nil, nil); !errors.Is(err, errs.ErrEmptyInput) {
		t.Fatalf("empty got %v", err)
	}
	if _, err := dataset.FromRows([][]float64{{1}}, []float64{0}, "a", "b"); !errors.Is(err, errs.ErrDimensionMismatch) {
		t.Fatalf("names got %v", err)
	}
	if _, err := dataset.New(nil, nil); !errors.Is(err, errs.ErrTypeArgument) {
		t.Fatalf("nil got %v", err)
	}
}

func TestWithIntercept(t *testing.T) {
	d := sample(t, 3).WithIntercept()
	if d.Features() != 3 || d.Len() != 3 {
		t.Fatalf("dims got %d x %d", d.Len(), d.Features())
	}
	if !slices.Equal(d.Names, []string{dataset.InterceptName, "a", "b"}) {
		t.Fatalf("names got %v", d.Names)
	}
	for i := range 3 {
		if d.X.At(i, 0) != 1 || d.X.At(i, 1) != float64(i) {
			t.Fatalf("row %d got %v", i, mat.Row(nil, i, d.X))
		}
	}
}

func TestSplitIsDisjointAndReproducible(t *testing.T) {
	d := sample(t, 10)
	train, valid, err := d.Split(0.7, core.NewWithSeed(4))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if train.Len() != 7 || valid.Len() != 3 {
		t.Fatalf("sizes got %d/%d", train.Len(), valid.Len())
	}
	seen := map[float64]bool{}
	for _, part := range []*dataset.Dataset{train, valid} {
		for i := range part.Len() {
			v := part.X.At(i, 0)
			if seen[v] {
				t.Fatalf("row %v appears twice", v)
			}
			seen[v] = true
			if part.Y.AtVec(i) != float64(int(v)%2) {
				t.Fatalf("row %v lost its label", v)
			}
		}
	}
	again, _, _ := d.Split(0.7, core.NewWithSeed(4))
	if !mat.Equal(train.X, again.X) {
		t.Fatalf("same seed gave a different split")
	}
	for _, r := range []float64{0, 1, 0.01, -0.5} {
		if _, _, err := d.Split(r, core.NewWithSeed(1)); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("ratio %v got %v", r, err)
		}
	}
}

func TestFoldsCoverEveryRowOnce(t *testing.T) {
	d := sample(t, 11)
	folds, err := d.Folds(3, core.NewWithSeed(8))
	if err != nil {
		t.Fatalf("folds: %v", err)
	}
	count := map[float64]int{}
	for _, f := range folds {
		if f.Train.Len()+f.Valid.Len() != 11 {
			t.Fatalf("fold sizes %d+%d", f.Train.Len(), f.Valid.Len())
		}
		if f.Valid.Len() < 3 || f.Valid.Len() > 4 {
			t.Fatalf("unbalanced fold %d", f.Valid.Len())
		}
		for i := range f.Valid.Len() {
			count[f.Valid.X.At(i, 0)]++
		}
	}
	if len(count) != 11 {
		t.Fatalf("validation covers %d rows", len(count))
	}
	for v, c := range count {
		if c != 1 {
			t.Fatalf("row %v validated %d times", v, c)
		}
	}
	for _, k := range []int{1, 12} {
		if _, err := d.Folds(k, core.NewWithSeed(1)); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("k=%d got %v", k, err)
		}
	}
}

func TestLabelDomains(t *testing.T) {
	d, _ := dataset.FromRows([][]float64{{1}, {2}, {3}}, []float64{0, 1, -1})
	s, err := d.Signed()
	if err != nil || !mat.Equal(s.Y, mat.NewVecDense(3, []float64{-1, 1, -1})) {
		t.Fatalf("signed got %v err %v", s, err)
	}
	b, err := s.Binary()
	if err != nil || !mat.Equal(b.Y, mat.NewVecDense(3, []float64{0, 1, 0})) {
		t.Fatalf("binary got %v err %v", b, err)
	}
	bad, _ := dataset.FromRows([][]float64{{1}}, []float64{3})
	if _, err := bad.Binary(); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("label 3 got %v", err)
	}
}

func TestLoadDataset(t *testing.T) {
	fsys := fstest.MapFS{
		"d.yaml":    {Data: []byte("features: [x]\nintercept: true\nrows: [[1], [2]]\nlabels: [0, 1]\n")},
		"d.json":    {Data: []byte(`{"rows": [[1, 2]], "labels": [1]}`)},
		"bad.yaml":  {Data: []byte("rows: [[1]]\nlabel: [1]\n")},
		"ragged.js": {Data: []byte("rows: [[1], [1, 2]]\nlabels: [0, 1]\n")},
	}
	d, err := dataset.LoadDataset(fsys, "d.yaml")
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if d.Features() != 2 || d.X.At(1, 1) != 2 || !slices.Equal(d.Names, []string{"intercept", "x"}) {
		t.Fatalf("yaml dataset got %v %v", d.Names, mat.Formatted(d.X))
	}
	d, err = dataset.LoadDataset(fsys, "d.json")
	if err != nil || d.Features() != 2 || d.Len() != 1 {
		t.Fatalf("json got %v err %v", d, err)
	}
	if _, err := dataset.LoadDataset(fsys, "bad.yaml"); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("unknown field got %v", err)
	}
	if _, err := dataset.LoadDataset(fsys, "ragged.js"); !errors.Is(err, errs.ErrDimensionMismatch) {
		t.Fatalf("ragged got %v", err)
	}
}
