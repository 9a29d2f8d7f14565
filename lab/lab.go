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

// Package lab 把 dataset、logit 與 report 串成可直接呼叫的實驗流程：
// 單次訓練（Fit）與平行 k-fold 交叉驗證（CrossValidate）。
package lab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/logitlab/dataset"
	"github.com/zintix-labs/logitlab/errs"
	"github.com/zintix-labs/logitlab/logit"
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/report"
	"github.com/zintix-labs/logitlab/sdk/core"
)

// Fit 以指定 seed 訓練一個分類器，並在訓練資料上產出報告。
func Fit(ctx context.Context, ds *dataset.Dataset, cfg *optimizer.Setting, seed int64, obs ...optimizer.Observer) (*logit.Classifier, *report.FitReport, error) {
	if ds == nil {
		return nil, nil, errs.Kindf(errs.TypeArgument, "dataset is required")
	}
	if cfg == nil {
		cfg = optimizer.DefaultSetting()
	}
	c := logit.NewClassifier(logit.WithSetting(cfg), logit.WithSeed(seed), logit.WithObserver(obs...))
	res, err := c.Fit(ctx, ds.X, ds.Y)
	if err != nil {
		return nil, nil, err
	}
	rep, err := report.NewFitReport(res, cfg, ds)
	if err != nil {
		return nil, nil, err
	}
	return c, rep, nil
}

// CrossValidate k-fold 交叉驗證：
//   - 以 seed 打亂並切成 k 份
//   - 每個 fold 由 SeedMaker 派生自己的 seed，各自擁有一個 Classifier
//   - workers 個 goroutine 平行訓練
//
// 未收斂的 fold 記錄在報告中（Err），不視為整體失敗；
// 其他錯誤（含 ctx 取消）會中止並回傳。
func CrossValidate(ctx context.Context, ds *dataset.Dataset, k int, cfg *optimizer.Setting, workers int, seed int64, showpb bool) (*report.CrossValReport, error) {
	if ds == nil {
		return nil, errs.Kindf(errs.TypeArgument, "dataset is required")
	}
	if workers < 1 {
		return nil, errs.Kindf(errs.InvalidArgument, "workers must > 0, got %d", workers)
	}
	if cfg == nil {
		cfg = optimizer.DefaultSetting()
	}
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	bin, err := ds.Binary()
	if err != nil {
		return nil, err
	}
	folds, err := bin.Folds(k, core.NewWithSeed(seed))
	if err != nil {
		return nil, err
	}
	workers = min(workers, k)

	// seed 依 fold 順序預先派生，與 worker 排程無關
	sm := core.NewSeedMaker(seed)
	rep := report.NewCrossValReport(k, ds.Len(), seed, cfg)
	for i := range rep.Folds {
		rep.Folds[i] = report.FoldReport{Fold: i, Seed: sm.Next()}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int, k)
	for i := range k {
		jobs <- i
	}
	close(jobs)

	var (
		wg    sync.WaitGroup
		once  sync.Once
		first error
	)
	bar := pb.New(k)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := runFold(ctx, cfg, folds[i], &rep.Folds[i]); err != nil {
					once.Do(func() {
						first = err
						cancel()
					})
					return
				}
				bar.Increment()
			}
		}()
	}
	wg.Wait()
	rep.Elapsed = time.Since(bar.StartTime())
	bar.Finish()
	if first != nil {
		return nil, first
	}
	rep.Done()
	return rep, nil
}

// runFold 訓練單一 fold 並把結果寫入 fr（每個 fold 只會被一個 goroutine 寫入）。
func runFold(ctx context.Context, cfg *optimizer.Setting, f dataset.Fold, fr *report.FoldReport) error {
	fr.TrainRows, fr.ValidRows = f.Train.Len(), f.Valid.Len()
	c := logit.NewClassifier(logit.WithSetting(cfg), logit.WithSeed(fr.Seed))
	res, err := c.Fit(ctx, f.Train.X, f.Train.Y)
	if errors.Is(err, errs.ErrNonConvergence) {
		fr.State = optimizer.Failed.String()
		fr.Err = err.Error()
		return nil
	}
	if err != nil {
		return errs.WrapWithExtra(err, "fold training failed", fmt.Sprintf("fold=%d seed=%d", fr.Fold, fr.Seed))
	}
	fr.State = res.State.String()
	fr.Steps = res.Steps
	fr.Coefficients = res.Coefficients.RawVector().Data
	if fr.TrainError, err = c.Error(f.Train.X, f.Train.Y); err != nil {
		return err
	}
	if fr.ValidError, err = c.Error(f.Valid.X, f.Valid.Y); err != nil {
		return err
	}
	return nil
}
