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
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"math"
	"strings"

	"github.com/zintix-labs/logitlab/errs"
	"gopkg.in/yaml.v3"
)

// Setting 梯度上升的全部超參數，取代過去散落的全域常數。
type Setting struct {
	// 學習率 α：每步沿梯度前進的比例
	LearningRate float64 `yaml:"learning_rate"         json:"learning_rate"`
	// L2 正則化常數 C，0 代表不懲罰
	Regularization float64 `yaml:"regularization"        json:"regularization"`
	// 步數預算 S_max
	MaxSteps int `yaml:"max_steps"             json:"max_steps"`
	// 收斂門檻 ε：單步最大係數變化量低於此值視為收斂
	ConvergenceThreshold float64 `yaml:"convergence_threshold" json:"convergence_threshold"`
	// 暖身比例：步數需超過 WarmupFraction*MaxSteps 才允許判定收斂
	WarmupFraction float64 `yaml:"warmup_fraction"       json:"warmup_fraction"`
}

// DefaultSetting 回傳預設值（5000 步、前 10 步為暖身）。
func DefaultSetting() *Setting {
	return &Setting{
		LearningRate:         0.0005,
		Regularization:       0.0007,
		MaxSteps:             5000,
		ConvergenceThreshold: 0.0005,
		WarmupFraction:       0.002,
	}
}

// Clone 回傳複本，避免呼叫端共用同一份設定。
func (s *Setting) Clone() *Setting {
	c := *s
	return &c
}

// Valid 檢查各欄位定義域：
//  1. learning_rate > 0
//  2. regularization >= 0
//  3. max_steps > 0
//  4. convergence_threshold > 0
//  5. 0 <= warmup_fraction < 1
func (s *Setting) Valid() error {
	if s == nil {
		return errs.Kindf(errs.TypeArgument, "optimizer setting is required")
	}
	if !(s.LearningRate > 0) || math.IsInf(s.LearningRate, 0) {
		return errs.Kindf(errs.InvalidArgument, "learning_rate must be a positive number, got %v", s.LearningRate)
	}
	if !(s.Regularization >= 0) || math.IsInf(s.Regularization, 0) {
		return errs.Kindf(errs.InvalidArgument, "regularization must be non-negative, got %v", s.Regularization)
	}
	if s.MaxSteps < 1 {
		return errs.Kindf(errs.InvalidArgument, "max_steps must > 0, got %d", s.MaxSteps)
	}
	if !(s.ConvergenceThreshold > 0) {
		return errs.Kindf(errs.InvalidArgument, "convergence_threshold must be positive, got %v", s.ConvergenceThreshold)
	}
	if !(s.WarmupFraction >= 0 && s.WarmupFraction < 1) {
		return errs.Kindf(errs.InvalidArgument, "warmup_fraction must be in [0,1), got %v", s.WarmupFraction)
	}
	return nil
}

// WarmupSteps 回傳暖身步數門檻 WarmupFraction*MaxSteps。
func (s *Setting) WarmupSteps() float64 {
	return s.WarmupFraction * float64(s.MaxSteps)
}

// LoadSetting 從 fs 讀取設定檔，依副檔名選擇 YAML 或 JSON。
func LoadSetting(fsys fs.FS, name string) (*Setting, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read optimizer setting "+name)
	}
	var s *Setting
	if strings.HasSuffix(name, ".json") {
		s, err = GetSettingByJSON(raw)
	} else {
		s, err = GetSettingByYAML(raw)
	}
	if err != nil {
		return nil, errs.WrapWithExtra(err, "failed to load optimizer setting", "file="+name)
	}
	return s, nil
}

// GetSettingByYAML
// 以預設值為底讀取 YAML（未填欄位保留預設），嚴格檢查欄位名稱後驗證。
func GetSettingByYAML(data []byte) (*Setting, error) {
	s := DefaultSetting()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Kindf(errs.InvalidArgument, "failed to unmarshall yaml: %v", err)
	}
	if err := s.Valid(); err != nil {
		return nil, errs.Wrap(err, "optimizer setting invalid")
	}
	return s, nil
}

// GetSettingByJSON
// 與 GetSettingByYAML 相同，但輸入為 JSON。
func GetSettingByJSON(data []byte) (*Setting, error) {
	s := DefaultSetting()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, errs.Kindf(errs.InvalidArgument, "can not unmarshall json byte: %v", err)
	}
	if err := s.Valid(); err != nil {
		return nil, errs.Wrap(err, "optimizer setting invalid")
	}
	return s, nil
}
