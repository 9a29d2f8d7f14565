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

// State 一次訓練的狀態：Initialized -> Iterating -> Converged | Failed
type State uint8

const (
	Initialized State = iota
	Iterating
	Converged
	Failed
)

var stateMap = map[State]string{
	Initialized: "initialized",
	Iterating:   "iterating",
	Converged:   "converged",
	Failed:      "failed",
}

func (s State) String() string {
	if str, ok := stateMap[s]; ok {
		return str
	}
	return "unknown"
}

// Done 是否已進入終止狀態
func (s State) Done() bool {
	return s == Converged || s == Failed
}
