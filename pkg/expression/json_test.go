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
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestProblemJsonRoundTrip(t *testing.T) {
	var (
		x = NewVar(0, Size{2, 1}, "x")
		c = NewConstant(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	)
	//
	problem := Problem{
		Sense:     Minimize,
		Objective: NewPNorm(NewMul(c, x), 1),
		Constraints: []Expression{
			NewLeq(NewIndex(x, Slice{0, 1, 1}, Slice{0, 1, 1}), NewConstantScalar(1)),
			NewEq(NewSumEntries(x), NewConstantScalar(0)),
		},
	}
	//
	bytes, err := ProblemToJson(problem)
	require.NoError(t, err)
	//
	parsed, err := ProblemFromJson(bytes)
	require.NoError(t, err)
	//
	assert.Equal(t, problem.Sense, parsed.Sense)
	assert.Equal(t, problem.Objective.String(), parsed.Objective.String())
	require.Len(t, parsed.Constraints, 2)
	//
	for i := range problem.Constraints {
		assert.Equal(t, problem.Constraints[i].String(), parsed.Constraints[i].String())
	}
	// Attributes survive structurally, not just in print form
	norm := parsed.Objective
	assert.Equal(t, 1.0, Attr[PNormAttributes](norm).P)
	//
	index := parsed.Constraints[0].Arg(0)
	assert.Equal(t, Slice{0, 1, 1}, Attr[IndexAttributes](index).Keys[0])
}

func TestProblemFromJsonRejectsUnknownOperator(t *testing.T) {
	_, err := ProblemFromJson([]byte(`{"objective": {"op": "frobnicate"}}`))
	assert.Error(t, err)
}

func TestProblemFromJsonRejectsBadPNorm(t *testing.T) {
	_, err := ProblemFromJson([]byte(
		`{"objective": {"op": "p_norm", "args": [{"op": "var", "id": 0, "rows": 1, "cols": 1}]}}`))
	assert.Error(t, err)
}

func TestProblemFromJsonRejectsRaggedConstant(t *testing.T) {
	_, err := ProblemFromJson([]byte(
		`{"objective": {"op": "const", "data": [[1, 2], [3]]}}`))
	assert.Error(t, err)
}

func TestProblemFromJsonParsesSense(t *testing.T) {
	problem, err := ProblemFromJson([]byte(
		`{"sense": "maximize", "objective": {"op": "var", "id": 3, "rows": 1, "cols": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, Maximize, problem.Sense)
	//
	_, err = ProblemFromJson([]byte(
		`{"sense": "sideways", "objective": {"op": "var", "id": 3, "rows": 1, "cols": 1}}`))
	assert.Error(t, err)
}
