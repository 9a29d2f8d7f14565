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

package optimizer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/linalg"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Problem 是要被最大化的可微目標。
//   - Gradient 把 w 處的梯度寫入 dst（長度 = Dim）。
//   - Objective 回傳 w 處的目標值，只用於診斷事件。
type Problem interface {
	Dim() int
	Gradient(dst *mat.VecDense, w mat.Vector)
	Objective(w mat.Vector) float64
}

// Result 收斂後的結果；失敗時不會回傳 Result。
type Result struct {
	Coefficients *mat.VecDense
	Steps        int
	MaxChange    float64
	Objective    float64
	State        State
	Elapsed      time.Duration
}

// Ascent 一次梯度上升訓練，獨佔自己的係數向量。
// 不可在多個 goroutine 間共用。
type Ascent struct {
	cfg   *Setting
	prob  Problem
	obs   Observer
	state State
	w     *mat.VecDense
	prev  *mat.VecDense
	grad  *mat.VecDense
}

// NewAscent 以初始係數 w0 建立一次訓練（狀態為 Initialized）。w0 會被複製。
func NewAscent(cfg *Setting, prob Problem, w0 mat.Vector, obs ...Observer) (*Ascent, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	if prob == nil {
		return nil, errs.Kindf(errs.TypeArgument, "problem is required")
	}
	if err := linalg.CheckVector(w0); err != nil {
		return nil, err
	}
	if w0.Len() != prob.Dim() {
		return nil, errs.Kindf(errs.DimensionMismatch, "initial coefficients have %d elements, problem has %d", w0.Len(), prob.Dim())
	}
	k := w0.Len()
	w := mat.NewVecDense(k, nil)
	w.CopyVec(w0)
	return &Ascent{
		cfg:   cfg.Clone(),
		prob:  prob,
		obs:   Observers(obs...),
		state: Initialized,
		w:     w,
		prev:  mat.NewVecDense(k, nil),
		grad:  mat.NewVecDense(k, nil),
	}, nil
}

func (a *Ascent) State() State { return a.state }

// Run 反覆執行：
//  1. 計算目前係數的梯度
//  2. 乘上學習率 α
//  3. 加回係數（上升；正則化已包含在梯度內，不再額外扣除）
//  4. 計算與上一步相比的最大單一係數變化量
//  5. 步數超過暖身門檻且變化量 < ε 即收斂
//
// 用完 MaxSteps 仍未收斂回傳 NonConvergence；ctx 取消時於步與步之間中止。
func (a *Ascent) Run(ctx context.Context) (*Result, error) {
	if a.state != Initialized {
		return nil, errs.Kindf(errs.InvalidArgument, "ascent already ran (state=%s)", a.state)
	}
	a.state = Iterating
	start := time.Now()
	warmup := a.cfg.WarmupSteps()
	change := math.Inf(1)

	for step := 1; step <= a.cfg.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, a.fail(step-1, change, start, errs.Wrap(err, "gradient ascent interrupted"))
		}
		a.prev.CopyVec(a.w)
		a.prob.Gradient(a.grad, a.w)
		a.w.AddScaledVec(a.w, a.cfg.LearningRate, a.grad)

		change = floats.Distance(a.w.RawVector().Data, a.prev.RawVector().Data, math.Inf(1))
		if math.IsNaN(change) || math.IsInf(change, 0) {
			return nil, a.fail(step, change, start,
				errs.Kindf(errs.NonConvergence, "gradient ascent diverged at step %d", step))
		}
		if a.obs != nil {
			a.obs.OnStep(Event{Step: step, MaxChange: change, Objective: a.prob.Objective(a.w)})
		}
		if float64(step) > warmup && change < a.cfg.ConvergenceThreshold {
			a.state = Converged
			res := &Result{
				Coefficients: mat.VecDenseCopyOf(a.w),
				Steps:        step,
				MaxChange:    change,
				Objective:    a.prob.Objective(a.w),
				State:        Converged,
				Elapsed:      time.Since(start),
			}
			if a.obs != nil {
				a.obs.OnDone(Summary{State: Converged, Steps: step, MaxChange: change, Objective: res.Objective, Elapsed: res.Elapsed})
			}
			return res, nil
		}
	}
	err := errs.Kindf(errs.NonConvergence, "gradient ascent is not converging after %d steps", a.cfg.MaxSteps)
	err.Extra = fmt.Sprintf("last max change %g >= threshold %g", change, a.cfg.ConvergenceThreshold)
	return nil, a.fail(a.cfg.MaxSteps, change, start, err)
}

func (a *Ascent) fail(steps int, change float64, start time.Time, err error) error {
	a.state = Failed
	if a.obs != nil {
		a.obs.OnDone(Summary{
			State:     Failed,
			Steps:     steps,
			MaxChange: change,
			Objective: a.prob.Objective(a.w),
			Elapsed:   time.Since(start),
			Err:       err,
		})
	}
	return err
}
