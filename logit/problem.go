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

package logit

import (
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/linalg"
	"github.com/zintix-labs/logitlab/optimizer"
	"gonum.org/v1/gonum/mat"
)

// likelihood 把 (X, Y, C) 綁成 optimizer.Problem。
// 建構時已完成維度檢查，Gradient / Objective 走不檢查的熱路徑。
type likelihood struct {
	x mat.Matrix
	y mat.Vector
	c float64
	k int
}

var _ optimizer.Problem = (*likelihood)(nil)

// NewProblem 回傳以對數概似為目標的 optimizer.Problem，y 需為 {-1,+1} 標籤。
func NewProblem(x mat.Matrix, y mat.Vector, c float64) (optimizer.Problem, error) {
	if err := linalg.CheckMatrix(x); err != nil {
		return nil, err
	}
	if err := linalg.CheckVector(y); err != nil {
		return nil, err
	}
	if err := linalg.CheckMatching(y, x); err != nil {
		return nil, err
	}
	if c < 0 {
		return nil, errs.Kindf(errs.InvalidArgument, "regularization constant must be non-negative, got %v", c)
	}
	_, k := x.Dims()
	return &likelihood{x: x, y: y, c: c, k: k}, nil
}

func (l *likelihood) Dim() int { return l.k }

func (l *likelihood) Gradient(dst *mat.VecDense, w mat.Vector) {
	gradientInto(dst, w, l.y, l.x, l.c)
}

// Objective 與 LogLikelihood 相同的數值（c > 0 時為懲罰後的負對數概似）。
func (l *likelihood) Objective(w mat.Vector) float64 {
	return objective(w, l.y, l.x, l.c)
}
