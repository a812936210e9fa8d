// Copyright Consensys Software Inc.
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
package coerce

import (
	"fmt"
	"strings"

	"github.com/consensys/algol68/pkg/a68/mode"
)

// Explain produces a human-readable explanation of why p cannot be coerced to
// q at the given strength.  For transient series/stowed sources, the members
// which fail are listed individually.
func (o *Oracle) Explain(p *mode.Moid, q *mode.Moid, sort Strength, dfx Deflex) string {
	if p.IsTransient() {
		var failed []string
		//
		memberSort := sort
		if p.IsStowed() {
			memberSort = STRONG
		}
		//
		for _, m := range p.Pack() {
			if m.Mode == nil {
				continue
			}
			//
			target := q
			if (q.IsRow() || q.IsFlex()) && p.IsStowed() {
				target = o.reg.SliceOf(q)
			}
			//
			if !o.Coercible(m.Mode, target, memberSort, dfx) {
				failed = append(failed, m.Mode.String())
			}
		}
		//
		if len(failed) > 0 {
			return fmt.Sprintf("cannot coerce any of (%s) to %s in %s context",
				strings.Join(failed, ", "), q, sort)
		}
	}
	//
	return fmt.Sprintf("%s cannot be coerced to %s in %s context", p, q, sort)
}
