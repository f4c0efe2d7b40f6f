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
package canon

import (
	"testing"

	"github.com/consensys/go-conic/pkg/expression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCanonicalizeLinearProgram(t *testing.T) {
	x := expression.NewVar(expression.FreshVarID(), expression.Size{Rows: 2, Cols: 1}, "x")
	//
	problem := expression.Problem{
		Sense:     expression.Minimize,
		Objective: expression.NewSumEntries(x),
		Constraints: []expression.Expression{
			expression.NewLeq(x, expression.NewConstant(mat.NewDense(2, 1, []float64{1, 2}))),
			expression.NewEq(expression.NewSumEntries(x), expression.NewConstantScalar(3)),
		},
	}
	//
	form, err := Canonicalize(problem)
	require.NoError(t, err)
	//
	assert.Equal(t, expression.Minimize, form.Sense)
	require.Equal(t, 2, form.NumVars())
	require.Len(t, form.Vars, 1)
	assert.Equal(t, 0, form.Vars[0].Offset)
	// c = (1, 1), no offset
	assert.Equal(t, []float64{1, 1}, form.C.RawVector().Data)
	assert.Equal(t, 0.0, form.Offset)
	// Rows: x <= (1,2) in the nonnegative cone, then one zero-cone row
	require.Equal(t, []Cone{{NonNegativeCone, 2}, {ZeroCone, 1}}, form.Cones)
	require.Equal(t, 3, form.A.Rows())
	//
	expected := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
	})
	assert.True(t, mat.Equal(expected, form.A.ToDense()))
	assert.Equal(t, []float64{1, 2, 3}, form.B.RawVector().Data)
}

func TestCanonicalizeQuadOverLin(t *testing.T) {
	var (
		x = expression.NewVar(expression.FreshVarID(), expression.Size{Rows: 3, Cols: 1}, "x")
		y = expression.NewVar(expression.FreshVarID(), expression.Size{Rows: 1, Cols: 1}, "y")
	)
	//
	problem := expression.Problem{
		Sense:     expression.Minimize,
		Objective: expression.NewQuadOverLin(x, y),
	}
	//
	form, err := Canonicalize(problem)
	require.NoError(t, err)
	// Decision vector stacks (t, y, x)
	require.Len(t, form.Vars, 3)
	require.Equal(t, 5, form.NumVars())
	//
	var (
		tOff = form.Vars[0].Offset
		yOff = form.Vars[1].Offset
		xOff = form.Vars[2].Offset
	)
	//
	assert.Equal(t, "y", form.Vars[1].Name)
	assert.Equal(t, "x", form.Vars[2].Name)
	// Objective is the epigraph variable alone
	assert.Equal(t, 1.0, form.C.AtVec(tOff))
	assert.Equal(t, 0.0, form.C.AtVec(yOff))
	// One second-order block of dimension 5, one nonnegativity row
	require.Equal(t, []Cone{{SecondOrderCone, 5}, {NonNegativeCone, 1}}, form.Cones)
	require.Equal(t, 6, form.A.Rows())
	// Slack row 0 holds y + t, so A carries the negated coefficients
	assert.Equal(t, -1.0, form.A.At(0, tOff))
	assert.Equal(t, -1.0, form.A.At(0, yOff))
	// Row 1 holds y - t
	assert.Equal(t, 1.0, form.A.At(1, tOff))
	assert.Equal(t, -1.0, form.A.At(1, yOff))
	// Rows 2-4 hold 2x
	for i := range 3 {
		assert.Equal(t, -2.0, form.A.At(2+i, xOff+i))
	}
	// Final row forces 0 <= y
	assert.Equal(t, -1.0, form.A.At(5, yOff))
	// Constant side vanishes throughout
	for i := range 6 {
		assert.Equal(t, 0.0, form.B.AtVec(i))
	}
}

func TestCanonicalizeObjectiveOffset(t *testing.T) {
	x := expression.NewVar(expression.FreshVarID(), expression.Size{Rows: 1, Cols: 1}, "x")
	//
	problem := expression.Problem{
		Sense:     expression.Maximize,
		Objective: expression.NewAdd(x, expression.NewConstantScalar(5)),
	}
	//
	form, err := Canonicalize(problem)
	require.NoError(t, err)
	assert.Equal(t, expression.Maximize, form.Sense)
	assert.Equal(t, 5.0, form.Offset)
	assert.Equal(t, 1.0, form.C.AtVec(0))
	// No constraints at all
	assert.Equal(t, 0, form.A.Rows())
	assert.Nil(t, form.B)
	assert.Empty(t, form.Cones)
}

func TestCanonicalizeRejectsMatrixObjective(t *testing.T) {
	x := expression.NewVar(expression.FreshVarID(), expression.Size{Rows: 2, Cols: 1}, "x")
	//
	_, err := Canonicalize(expression.Problem{Objective: x})
	assert.ErrorContains(t, err, "not scalar")
}

func TestCanonicalizeRejectsBareConstraint(t *testing.T) {
	x := expression.NewVar(expression.FreshVarID(), expression.Size{Rows: 1, Cols: 1}, "x")
	//
	problem := expression.Problem{
		Objective:   x,
		Constraints: []expression.Expression{x},
	}
	//
	_, err := Canonicalize(problem)
	assert.ErrorContains(t, err, "unrecognised constraint")
}
