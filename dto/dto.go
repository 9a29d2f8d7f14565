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

package dto

import (
	"github.com/zintix-labs/logitlab/optimizer"
	"github.com/zintix-labs/logitlab/report"
)

type FitResponse struct {
	Seed   int64             `json:"seed"`
	Report *report.FitReport `json:"report"`
}

type CrossValResponse struct {
	Seed   int64                  `json:"seed"`
	Report *report.CrossValReport `json:"report"`
}

type PredictResponse struct {
	Probabilities []float64 `json:"probabilities"`
	Labels        []int     `json:"labels"` // 機率 > 0.5 為 1
}

type ErrorResponse struct {
	Rows  int     `json:"rows"`
	Error float64 `json:"error"` // 誤判比例
}

type SettingResponse struct {
	Setting *optimizer.Setting `json:"setting"`
}
