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
package linear

import (
	"fmt"
	"sort"
	"strings"

	"github.com/consensys/go-conic/pkg/matrix"
)

// ConstID is the reserved identifier under which a coefficient map carries
// its constant term.  Real variable identifiers are non-negative, so no
// collision is possible.
const ConstID int64 = -1

// CoeffMap maps variable identifiers to sparse coefficient matrices.  For an
// expression e of total dimension d, the entry for variable v has d rows and
// dim(v) columns, and the flattened (column-major) value of e equals the sum
// over all variables of coeffs[v] * vec(v), plus the column vector stored
// under ConstID.  A variable absent from the map contributes zero.
type CoeffMap map[int64]matrix.Sparse

// IsConstant reports whether a coefficient map represents a constant
// expression, i.e. it holds exactly the ConstID entry.
func IsConstant(coeffs CoeffMap) bool {
	_, ok := coeffs[ConstID]
	return ok && len(coeffs) == 1
}

// String produces a compact summary of this coefficient map, keyed in
// ascending identifier order with the constant term last.
func (p CoeffMap) String() string {
	ids := make([]int64, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	//
	sort.Slice(ids, func(i, j int) bool {
		// ConstID sorts last
		if ids[i] == ConstID || ids[j] == ConstID {
			return ids[j] == ConstID
		}
		//
		return ids[i] < ids[j]
	})
	//
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, id := range ids {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		if id == ConstID {
			fmt.Fprintf(&builder, "const: %s", p[id])
		} else {
			fmt.Fprintf(&builder, "v%d: %s", id, p[id])
		}
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
