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

package report

import (
	"time"

	"github.com/zintix-labs/logitlab/dataset"
	"github.com/zintix-labs/logitlab/linalg"
	"github.com/zintix-labs/logitlab/logit"
	"github.com/zintix-labs/logitlab/optimizer"
	"gonum.org/v1/gonum/stat"
)

// FitReport 單次訓練的結果報告
type FitReport struct {
	Features     []string           `json:"Features,omitempty" yaml:"Features,omitempty"`
	Coefficients []float64          `json:"Coefficients"       yaml:"Coefficients"`
	State        string             `json:"State"              yaml:"State"`
	Steps        int                `json:"Steps"              yaml:"Steps"`
	MaxChange    float64            `json:"MaxChange"          yaml:"MaxChange"`
	Objective    float64            `json:"Objective"          yaml:"Objective"`
	Rows         int                `json:"Rows"               yaml:"Rows"`
	TrainError   float64            `json:"TrainError"         yaml:"TrainError"`
	Confusion    logit.Confusion    `json:"Confusion"          yaml:"Confusion"`
	Accuracy     float64            `json:"Accuracy"           yaml:"Accuracy"`
	Precision    float64            `json:"Precision"          yaml:"Precision"`
	Recall       float64            `json:"Recall"             yaml:"Recall"`
	F1           float64            `json:"F1"                 yaml:"F1"`
	Setting      *optimizer.Setting `json:"Setting"            yaml:"Setting"`
	ElapsedSec   float64            `json:"ElapsedSec"         yaml:"ElapsedSec"`
	Elapsed      time.Duration      `json:"-"                  yaml:"-"`
}

// NewFitReport 以收斂結果在訓練資料上評估並整理報告。
// ds 的標籤為 {0,1}（或 {-1,+1}，會先轉為 {0,1}）。
func NewFitReport(res *optimizer.Result, cfg *optimizer.Setting, ds *dataset.Dataset) (*FitReport, error) {
	bin, err := ds.Binary()
	if err != nil {
		return nil, err
	}
	cm, err := logit.Evaluate(res.Coefficients, bin.X, bin.Y)
	if err != nil {
		return nil, err
	}
	r := &FitReport{
		Features:     ds.Names,
		Coefficients: linalg.Slice(res.Coefficients),
		State:        res.State.String(),
		Steps:        res.Steps,
		MaxChange:    res.MaxChange,
		Objective:    res.Objective,
		Rows:         ds.Len(),
		TrainError:   1 - cm.Accuracy(),
		Confusion:    cm,
		Accuracy:     cm.Accuracy(),
		Precision:    cm.Precision(),
		Recall:       cm.Recall(),
		F1:           cm.F1(),
		Setting:      cfg.Clone(),
		ElapsedSec:   res.Elapsed.Seconds(),
		Elapsed:      res.Elapsed,
	}
	return r, nil
}

// FoldReport 交叉驗證中單一 fold 的結果
type FoldReport struct {
	Fold         int       `json:"Fold"                   yaml:"Fold"`
	Seed         int64     `json:"Seed"                   yaml:"Seed"`
	TrainRows    int       `json:"TrainRows"              yaml:"TrainRows"`
	ValidRows    int       `json:"ValidRows"              yaml:"ValidRows"`
	State        string    `json:"State"                  yaml:"State"`
	Steps        int       `json:"Steps"                  yaml:"Steps"`
	TrainError   float64   `json:"TrainError"             yaml:"TrainError"`
	ValidError   float64   `json:"ValidError"             yaml:"ValidError"`
	Coefficients []float64 `json:"Coefficients,omitempty" yaml:"Coefficients,omitempty"`
	Err          string    `json:"Err,omitempty"          yaml:"Err,omitempty"`
}

// Converged 該 fold 是否訓練成功。
func (f *FoldReport) Converged() bool { return f.Err == "" }

// CrossValReport k-fold 交叉驗證報告
//
// 各 fold 填入後呼叫 Done() 彙整平均與標準差；只統計收斂的 fold。
type CrossValReport struct {
	K          int                `json:"K"          yaml:"K"`
	Rows       int                `json:"Rows"       yaml:"Rows"`
	Seed       int64              `json:"Seed"       yaml:"Seed"`
	Setting    *optimizer.Setting `json:"Setting"    yaml:"Setting"`
	Folds      []FoldReport       `json:"Folds"      yaml:"Folds"`
	Converged  int                `json:"Converged"  yaml:"Converged"`
	MeanError  float64            `json:"MeanError"  yaml:"MeanError"`
	StdError   float64            `json:"StdError"   yaml:"StdError"`
	MeanTrain  float64            `json:"MeanTrain"  yaml:"MeanTrain"`
	ElapsedSec float64            `json:"ElapsedSec" yaml:"ElapsedSec"`
	Elapsed    time.Duration      `json:"-"          yaml:"-"`
	isDone     bool
}

func NewCrossValReport(k, rows int, seed int64, cfg *optimizer.Setting) *CrossValReport {
	return &CrossValReport{
		K:       k,
		Rows:    rows,
		Seed:    seed,
		Setting: cfg.Clone(),
		Folds:   make([]FoldReport, k),
	}
}

// Done 彙整各 fold 的驗證誤差。重複呼叫無作用。
//
// 沒有任何 fold 收斂時各項為 0（以 Converged 判斷）；只有一個 fold 收斂時標準差為 0。
func (r *CrossValReport) Done() {
	if r.isDone {
		return
	}
	valid := make([]float64, 0, len(r.Folds))
	train := make([]float64, 0, len(r.Folds))
	for i := range r.Folds {
		if r.Folds[i].Converged() {
			valid = append(valid, r.Folds[i].ValidError)
			train = append(train, r.Folds[i].TrainError)
		}
	}
	r.Converged = len(valid)
	switch len(valid) {
	case 0:
		r.MeanError, r.StdError, r.MeanTrain = 0, 0, 0
	case 1:
		r.MeanError, r.StdError, r.MeanTrain = valid[0], 0, train[0]
	default:
		r.MeanError, r.StdError = stat.MeanStdDev(valid, nil)
		r.MeanTrain = stat.Mean(train, nil)
	}
	r.ElapsedSec = r.Elapsed.Seconds()
	r.isDone = true
}
