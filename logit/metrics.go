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
	"github.com/zintix-labs/logitlab/linalg"
	"gonum.org/v1/gonum/mat"
)

// Confusion 二元混淆矩陣（正類為 1）。
type Confusion struct {
	TP int `json:"tp" yaml:"tp"`
	FP int `json:"fp" yaml:"fp"`
	TN int `json:"tn" yaml:"tn"`
	FN int `json:"fn" yaml:"fn"`
}

// Evaluate 以係數 w 分類 x 的每一列，與 {0,1} 標籤 yExp 比對。
func Evaluate(w mat.Vector, x mat.Matrix, yExp mat.Vector) (Confusion, error) {
	var cm Confusion
	if err := linalg.CheckTrainingSet(w, yExp, x); err != nil {
		return cm, err
	}
	for i := range yExp.Len() {
		got := label(sigmoid(mat.Dot(w, linalg.Row(x, i))))
		want := yExp.AtVec(i) == 1
		switch {
		case got == 1 && want:
			cm.TP++
		case got == 1 && !want:
			cm.FP++
		case got == 0 && want:
			cm.FN++
		default:
			cm.TN++
		}
	}
	return cm, nil
}

func (cm Confusion) Total() int { return cm.TP + cm.FP + cm.TN + cm.FN }

// Accuracy 正確比例；沒有樣本時為 0。
func (cm Confusion) Accuracy() float64 {
	n := cm.Total()
	if n == 0 {
		return 0
	}
	return float64(cm.TP+cm.TN) / float64(n)
}

// Precision / Recall / F1 分母為 0 時回傳 0。
func (cm Confusion) Precision() float64 {
	if cm.TP+cm.FP == 0 {
		return 0
	}
	return float64(cm.TP) / float64(cm.TP+cm.FP)
}

func (cm Confusion) Recall() float64 {
	if cm.TP+cm.FN == 0 {
		return 0
	}
	return float64(cm.TP) / float64(cm.TP+cm.FN)
}

func (cm Confusion) F1() float64 {
	p, r := cm.Precision(), cm.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
