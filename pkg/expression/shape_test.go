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
package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSizeOf(t *testing.T) {
	var (
		x = NewVar(0, Size{2, 3}, "x")
		v = NewVar(1, Size{3, 1}, "v")
		s = NewVar(2, Size{1, 1}, "s")
		c = NewConstant(mat.NewDense(3, 2, nil))
	)
	//
	tests := []struct {
		name     string
		expr     Expression
		expected Size
	}{
		{"var", x, Size{2, 3}},
		{"const", c, Size{3, 2}},
		{"add", NewAdd(x, x), Size{2, 3}},
		{"add promotes scalar", NewAdd(s, x), Size{2, 3}},
		{"add all scalar", NewAdd(s, s), Size{1, 1}},
		{"neg", NewNeg(x), Size{2, 3}},
		{"mul", NewMul(x, c), Size{2, 2}},
		{"mul promotes scalar", NewMul(s, x), Size{2, 3}},
		{"sum_entries", NewSumEntries(x), Size{1, 1}},
		{"hstack", NewHStack(x, x), Size{2, 6}},
		{"vstack", NewVStack(x, x), Size{4, 3}},
		{"reshape", NewReshape(x, Size{6, 1}), Size{6, 1}},
		{"index", NewIndex(x, Slice{0, 2, 1}, Slice{0, 3, 2}), Size{2, 2}},
		{"index empty", NewIndex(x, Slice{2, 3, 1}, Slice{0, 3, 1}), Size{0, 3}},
		{"diag_vec", NewDiagVec(v), Size{3, 3}},
		{"diag_mat", NewDiagMat(NewDiagVec(v)), Size{3, 1}},
		{"transpose", NewTranspose(x), Size{3, 2}},
		{"abs", NewAbs(x), Size{2, 3}},
		{"p_norm", NewPNorm(x, 1), Size{1, 1}},
		{"quad_over_lin", NewQuadOverLin(v, s), Size{1, 1}},
		{"leq", NewLeq(x, x), Size{2, 3}},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SizeOf(tt.expr))
			assert.Equal(t, tt.expected.Dim(), Dim(tt.expr))
		})
	}
}
