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
	"context"

	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/linalg"
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/sdk/core"
	"gonum.org/v1/gonum/mat"
)

// Threshold 正類判定門檻：機率嚴格大於此值才判為 1。
const Threshold = 0.5

// Classifier 二元邏輯斯迴歸分類器。
//
// 同一時間只持有一組係數；Fit 成功才會替換。
// 不可在多個 goroutine 間共用同一個 Classifier 進行訓練。
type Classifier struct {
	cfg  *optimizer.Setting
	core *core.Core
	obs  []optimizer.Observer
	w    *mat.VecDense
}

type Option func(*Classifier)

// WithSetting 指定優化器設定（會被複製）。
func WithSetting(s *optimizer.Setting) Option {
	return func(c *Classifier) {
		if s != nil {
			c.cfg = s.Clone()
		}
	}
}

// WithSeed 固定隨機初始係數的 seed，使訓練可重現。
func WithSeed(seed int64) Option {
	return func(c *Classifier) {
		c.core = core.NewWithSeed(seed)
	}
}

// WithObserver 附加優化過程的診斷接收者。
func WithObserver(obs ...optimizer.Observer) Option {
	return func(c *Classifier) {
		c.obs = append(c.obs, obs...)
	}
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{cfg: optimizer.DefaultSetting()}
	for _, opt := range opts {
		opt(c)
	}
	if c.core == nil {
		c.core = core.NewWithSeed(core.RandomSeed())
	}
	return c
}

// Setting 回傳目前設定的複本。
func (c *Classifier) Setting() *optimizer.Setting { return c.cfg.Clone() }

// GenerateRandomCoefficients 產生長度 n、元素為 [0,1) 均勻亂數的係數向量。
// n <= 0 回傳 InvalidArgument。
func (c *Classifier) GenerateRandomCoefficients(n int) (*mat.VecDense, error) {
	return linalg.Random(n, c.core)
}

// Predict 回傳正類機率 logistic(w·xi)，恆在 (0,1)：
// 分數極大或極小時停在 1 的前一個 float64 或最小正數，不會剛好是 1 或 0。
func (c *Classifier) Predict(w, xi mat.Vector) (float64, error) {
	s, err := Score(w, xi)
	if err != nil {
		return 0, err
	}
	return sigmoid(s), nil
}

// Classify 以 0.5 為門檻回傳 1 或 0。
func (c *Classifier) Classify(w, xi mat.Vector) (int, error) {
	p, err := c.Predict(w, xi)
	if err != nil {
		return 0, err
	}
	return label(p), nil
}

// CalculateError 回傳誤判比例（誤判筆數 / 總筆數），落在 [0,1]。
func (c *Classifier) CalculateError(w mat.Vector, x mat.Matrix, yExp mat.Vector) (float64, error) {
	if err := linalg.CheckTrainingSet(w, yExp, x); err != nil {
		return 0, err
	}
	n := yExp.Len()
	miss := 0
	for i := range n {
		if float64(label(sigmoid(mat.Dot(w, linalg.Row(x, i))))) != yExp.AtVec(i) {
			miss++
		}
	}
	return float64(miss) / float64(n), nil
}

// Fit 以 {0,1}（或 {-1,+1}）標籤訓練：
//   - 隨機初始化係數（Initialized）
//   - 標籤轉為 {-1,+1} 後執行梯度上升
//   - 收斂才替換持有的係數；失敗時保留原模型並回傳錯誤
func (c *Classifier) Fit(ctx context.Context, x mat.Matrix, y mat.Vector) (*optimizer.Result, error) {
	if err := linalg.CheckMatrix(x); err != nil {
		return nil, err
	}
	if err := linalg.CheckVector(y); err != nil {
		return nil, err
	}
	if err := linalg.CheckMatching(y, x); err != nil {
		return nil, err
	}
	signed, err := SignedLabels(y)
	if err != nil {
		return nil, err
	}
	prob, err := NewProblem(x, signed, c.cfg.Regularization)
	if err != nil {
		return nil, err
	}
	w0, err := c.GenerateRandomCoefficients(prob.Dim())
	if err != nil {
		return nil, err
	}
	asc, err := optimizer.NewAscent(c.cfg, prob, w0, c.obs...)
	if err != nil {
		return nil, err
	}
	res, err := asc.Run(ctx)
	if err != nil {
		return nil, err
	}
	c.w = mat.VecDenseCopyOf(res.Coefficients)
	return res, nil
}

// Fitted 是否已持有模型。
func (c *Classifier) Fitted() bool { return c.w != nil }

// Coefficients 回傳持有係數的複本；未訓練時為 nil。
func (c *Classifier) Coefficients() *mat.VecDense {
	if c.w == nil {
		return nil
	}
	return mat.VecDenseCopyOf(c.w)
}

// SetCoefficients 直接載入一組係數（例如外部已訓練好的模型）。
func (c *Classifier) SetCoefficients(w mat.Vector) error {
	if err := linalg.CheckVector(w); err != nil {
		return err
	}
	c.w = mat.VecDenseCopyOf(w)
	return nil
}

// PredictRow 以持有的模型計算 Predict。
func (c *Classifier) PredictRow(xi mat.Vector) (float64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	return c.Predict(c.w, xi)
}

// ClassifyRow 以持有的模型計算 Classify。
func (c *Classifier) ClassifyRow(xi mat.Vector) (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	return c.Classify(c.w, xi)
}

// Error 以持有的模型計算 CalculateError。
func (c *Classifier) Error(x mat.Matrix, yExp mat.Vector) (float64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	return c.CalculateError(c.w, x, yExp)
}

func (c *Classifier) ready() error {
	if c.w == nil {
		return errs.Kindf(errs.EmptyInput, "classifier is not fitted")
	}
	return nil
}

// SignedLabels 把 {0,1} 標籤轉為 {-1,+1}；已是 {-1,+1} 的標籤原樣保留。
// 其他值回傳 InvalidArgument。
func SignedLabels(y mat.Vector) (*mat.VecDense, error) {
	if err := linalg.CheckVector(y); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(y.Len(), nil)
	for i := range y.Len() {
		switch v := y.AtVec(i); v {
		case 0, -1:
			out.SetVec(i, -1)
		case 1:
			out.SetVec(i, 1)
		default:
			return nil, errs.Kindf(errs.InvalidArgument, "label %v at index %d is not one of {0,1} or {-1,+1}", v, i)
		}
	}
	return out, nil
}

func label(p float64) int {
	if p > Threshold {
		return 1
	}
	return 0
}
