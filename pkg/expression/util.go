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
	"fmt"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// varCounter feeds FreshVarID.  Identifiers are unique across an entire
// process, so expressions from independent problems never collide.
var varCounter atomic.Int64

// FreshVarID mints a variable identifier which has never been handed out
// before.
func FreshVarID() int64 {
	return varCounter.Add(1) - 1
}

// NewVar constructs a variable leaf of a given shape.
func NewVar(id int64, size Size, name string) Expression {
	return New(Var, nil, VarAttributes{id, size, name})
}

// EpiVar mints a fresh epigraph variable with the same shape as a given
// parent expression.  The label is purely cosmetic and is combined with the
// fresh identifier to name the variable.
func EpiVar(parent Expression, label string) Expression {
	id := FreshVarID()
	return NewVar(id, SizeOf(parent), fmt.Sprintf("%s:%d", label, id))
}

// ScalarEpiVar mints a fresh scalar epigraph variable for a given parent
// expression.
func ScalarEpiVar(parent Expression, label string) Expression {
	id := FreshVarID()
	return NewVar(id, Size{1, 1}, fmt.Sprintf("%s:%d", label, id))
}

// NewConstant constructs a constant leaf holding a given dense value, which
// the expression takes ownership of.
func NewConstant(data *mat.Dense) Expression {
	return New(Const, nil, ConstAttributes{data})
}

// NewConstantScalar constructs a (1,1) constant leaf.
func NewConstantScalar(v float64) Expression {
	return NewConstant(mat.NewDense(1, 1, []float64{v}))
}

// NewAdd constructs the elementwise sum of one or more expressions.  Scalar
// arguments are promoted to the shape of the result.
func NewAdd(args ...Expression) Expression {
	if len(args) == 0 {
		panic("empty sum")
	}
	//
	return New(Add, args, nil)
}

// NewNeg constructs the negation of an expression.
func NewNeg(arg Expression) Expression {
	return New(Neg, []Expression{arg}, nil)
}

// NewMul constructs the matrix product of two expressions.  For the affine
// pipelines to accept it, at least one operand must be constant.
func NewMul(lhs Expression, rhs Expression) Expression {
	return New(Mul, []Expression{lhs, rhs}, nil)
}

// NewSumEntries constructs the scalar sum over all entries of an expression.
func NewSumEntries(arg Expression) Expression {
	return New(SumEntries, []Expression{arg}, nil)
}

// NewHStack concatenates one or more expressions column-wise.  All arguments
// must share a row count.
func NewHStack(args ...Expression) Expression {
	if len(args) == 0 {
		panic("empty hstack")
	}
	//
	return New(HStack, args, nil)
}

// NewVStack concatenates one or more expressions row-wise.  All arguments
// must share a column count.
func NewVStack(args ...Expression) Expression {
	if len(args) == 0 {
		panic("empty vstack")
	}
	//
	return New(VStack, args, nil)
}

// NewReshape reinterprets an expression under a new shape of identical total
// dimension, preserving column-major order.
func NewReshape(arg Expression, size Size) Expression {
	if Dim(arg) != size.Dim() {
		panic(fmt.Sprintf("reshaping %s expression as %s", SizeOf(arg), size))
	}
	//
	return New(Reshape, []Expression{arg}, ReshapeAttributes{size})
}

// NewIndex selects a strided submatrix of an expression, given a row slice
// and a column slice.
func NewIndex(arg Expression, rows Slice, cols Slice) Expression {
	if rows.Step == 0 || cols.Step == 0 {
		panic("slice step must be nonzero")
	}
	//
	return New(Index, []Expression{arg}, IndexAttributes{[2]Slice{rows, cols}})
}

// NewDiagVec embeds a column vector as the diagonal of a square matrix.
func NewDiagVec(arg Expression) Expression {
	return New(DiagVec, []Expression{arg}, nil)
}

// NewDiagMat extracts the diagonal of a square matrix as a column vector.
func NewDiagMat(arg Expression) Expression {
	return New(DiagMat, []Expression{arg}, nil)
}

// NewTranspose constructs the transpose of an expression.
func NewTranspose(arg Expression) Expression {
	return New(Transpose, []Expression{arg}, nil)
}

// NewAbs constructs the elementwise absolute value of an expression.
func NewAbs(arg Expression) Expression {
	return New(Abs, []Expression{arg}, nil)
}

// NewPNorm constructs the entrywise p-norm of an expression.
func NewPNorm(arg Expression, p float64) Expression {
	return New(PNorm, []Expression{arg}, PNormAttributes{p})
}

// NewQuadOverLin constructs sum_squares(x)/y for a scalar denominator y.
func NewQuadOverLin(x Expression, y Expression) Expression {
	return New(QuadOverLin, []Expression{x, y}, nil)
}

// NewLeq constructs the elementwise constraint lhs <= rhs.
func NewLeq(lhs Expression, rhs Expression) Expression {
	return New(Leq, []Expression{lhs, rhs}, nil)
}

// NewEq constructs the elementwise constraint lhs == rhs.
func NewEq(lhs Expression, rhs Expression) Expression {
	return New(Eq, []Expression{lhs, rhs}, nil)
}

// NewSOC constructs the second-order cone constraint ||v||_2 <= w, for a
// vector v and scalar w.
func NewSOC(v Expression, w Expression) Expression {
	return New(SOC, []Expression{v, w}, nil)
}

// Variables returns the variable leaves of an expression, deduplicated by
// identifier, in first-occurrence order.
func Variables(e Expression) []VarAttributes {
	var (
		seen = make(map[int64]bool)
		vars []VarAttributes
	)
	//
	var walk func(Expression)
	//
	walk = func(e Expression) {
		if e.Type() == Var {
			attrs := Attr[VarAttributes](e)
			if !seen[attrs.ID] {
				seen[attrs.ID] = true
				vars = append(vars, attrs)
			}
		}
		//
		for _, arg := range e.Args() {
			walk(arg)
		}
	}
	//
	walk(e)
	//
	return vars
}
