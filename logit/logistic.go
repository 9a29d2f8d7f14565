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
	"math"

	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/linalg"
	"gonum.org/v1/gonum/mat"
)

// Logistic 計算 1 / (1 + e^-z)，結果恆在開區間 (0,1)；
// float64 飽和時回傳最接近 1 或 0 的可表示值。
// 非有限值（NaN / ±Inf）回傳 InvalidArgument。
func Logistic(z float64) (float64, error) {
	if err := linalg.CheckFinite(z); err != nil {
		return 0, err
	}
	return sigmoid(z), nil
}

// Score 計算線性預測值 w·xi。
// 所有係數與特徵的乘加都經過這裡。
func Score(w, xi mat.Vector) (float64, error) {
	return linalg.Dot(w, xi)
}

// LogLikelihood 計算
//
//	L(w) = Σ log(logistic(y_i · w·X_i))
//
// c > 0 時改為懲罰後的負對數概似：L = -L + 0.5·c·(w·w)。
// 標籤原樣代入，不做 {0,1} / {-1,+1} 轉換。
func LogLikelihood(w, y mat.Vector, x mat.Matrix, c float64) (float64, error) {
	if err := checkInputs(w, y, x, c); err != nil {
		return 0, err
	}
	return objective(w, y, x, c), nil
}

func objective(w, y mat.Vector, x mat.Matrix, c float64) float64 {
	sum := 0.0
	for i := range y.Len() {
		sum += logSigmoid(y.AtVec(i) * mat.Dot(w, linalg.Row(x, i)))
	}
	if c > 0 {
		sum = -sum + 0.5*c*mat.Dot(w, w)
	}
	return sum
}

// Gradient 計算對數概似對每個係數的偏微分：
//
//	g_k = Σ y_i · X_i[k] · logistic(-y_i · w·X_i)  (c > 0 時再減去 c·w_k)
//
// 回傳長度與 w 相同的向量，即梯度上升的更新方向。
func Gradient(w, y mat.Vector, x mat.Matrix, c float64) (*mat.VecDense, error) {
	if err := checkInputs(w, y, x, c); err != nil {
		return nil, err
	}
	g := mat.NewVecDense(w.Len(), nil)
	gradientInto(g, w, y, x, c)
	return g, nil
}

// gradientInto 為熱路徑版本：不做檢查、寫入既有的 dst。
func gradientInto(dst *mat.VecDense, w, y mat.Vector, x mat.Matrix, c float64) {
	dst.Zero()
	for i := range y.Len() {
		xi := linalg.Row(x, i)
		yi := y.AtVec(i)
		f := yi * sigmoid(-yi*mat.Dot(w, xi))
		dst.AddScaledVec(dst, f, xi)
	}
	if c > 0 {
		dst.AddScaledVec(dst, -c, w)
	}
}

func checkInputs(w, y mat.Vector, x mat.Matrix, c float64) error {
	if err := linalg.CheckTrainingSet(w, y, x); err != nil {
		return err
	}
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return errs.Kindf(errs.InvalidArgument, "regularization constant must be a non-negative number, got %v", c)
	}
	return nil
}

// maxProb 小於 1 的最大 float64
var maxProb = math.Nextafter(1, 0)

// sigmoid 以分段形式避免 exp 溢位，結果夾在 [最小正數, maxProb]，
// 所以 |z| 很大（z ≳ 37 或 z ≲ -745）時也不會剛好等於 1 或 0。
func sigmoid(z float64) float64 {
	var p float64
	if z >= 0 {
		p = 1 / (1 + math.Exp(-z))
	} else {
		e := math.Exp(z)
		p = e / (1 + e)
	}
	return min(max(p, math.SmallestNonzeroFloat64), maxProb)
}

// logSigmoid = log(sigmoid(t))，大負數時不會出現 log(0)。
func logSigmoid(t float64) float64 {
	if t >= 0 {
		return -math.Log1p(math.Exp(-t))
	}
	return t - math.Log1p(math.Exp(t))
}
