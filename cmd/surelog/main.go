// Copyright Apotell Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command surelog is the executable front end for the compiler pipeline
// implemented under pkg/. It only wires pkg/cmd's Cobra command tree to
// the process; all behavior lives in pkg/cmd and the packages it drives.
package main

import (
	"github.com/Apotell/surelog-core/pkg/cmd"
)

func main() {
	cmd.Execute()
}
