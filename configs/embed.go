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

package configs

import (
	"embed"
)

// FS 內嵌的預設設定與示範資料集。
//
//   - setting.yaml : 優化器預設設定
//   - exams.yaml   : 二元分類示範資料（讀書時數、睡眠時數 → 是否通過）
//
//go:embed *.yaml
var FS embed.FS

const (
	SettingFile = "setting.yaml"
	DemoDataset = "exams.yaml"
)
