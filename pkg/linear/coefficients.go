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

	"github.com/consensys/go-conic/pkg/expression"
	"github.com/consensys/go-conic/pkg/matrix"
	log "github.com/sirupsen/logrus"
)

// coefficientFunc computes, for a given affine node, one sparse coefficient
// matrix per child: the linear map from the child's flattened value to the
// child's contribution to the node's flattened value.
type coefficientFunc func(expression.Expression) []matrix.Sparse

// coefficientFuncs dispatches affine operators to their coefficient
// constructors.  Const, Var and Mul are handled directly by Coefficients;
// any type missing from this table is not affine.
var coefficientFuncs = map[expression.Type]coefficientFunc{
	expression.Add:        addCoefficients,
	expression.Neg:        negCoefficients,
	expression.SumEntries: sumEntriesCoefficients,
	expression.HStack:     hstackCoefficients,
	expression.VStack:     vstackCoefficients,
	expression.Reshape:    reshapeCoefficients,
	expression.Index:      indexCoefficients,
	expression.DiagVec:    diagVecCoefficients,
	expression.DiagMat:    diagMatCoefficients,
	expression.Transpose:  transposeCoefficients,
}

// Coefficients extracts the coefficient map of an affine expression: for
// every free variable, the sparse matrix multiplying its flattened value in
// the flattened value of the expression, plus (under ConstID) the constant
// term.  The expression must be affine throughout; a nonlinear or unknown
// operator, or a product of two non-constant operands, yields an error.
func Coefficients(e expression.Expression) (CoeffMap, error) {
	log.Tracef("extracting coefficients of %s", e)
	//
	coeffs := make(CoeffMap)
	//
	switch e.Type() {
	case expression.Const:
		data := expression.Attr[expression.ConstAttributes](e).Data
		coeffs[ConstID] = matrix.Vec(data)
	case expression.Var:
		attrs := expression.Attr[expression.VarAttributes](e)
		coeffs[attrs.ID] = matrix.Identity(attrs.Size.Dim())
	case expression.Mul:
		return mulCoefficients(e)
	default:
		fn, ok := coefficientFuncs[e.Type()]
		if !ok {
			return nil, fmt.Errorf("no linear coefficients for %s", e)
		}
		//
		fcoeffs := fn(e)
		//
		for i, arg := range e.Args() {
			argCoeffs, err := Coefficients(arg)
			if err != nil {
				return nil, err
			}
			//
			accumulate(fcoeffs[i], argCoeffs, coeffs)
		}
	}
	//
	return coeffs, nil
}

// accumulate folds f * rhs[v] into result[v] for every variable of a child
// coefficient map, summing on collision.
func accumulate(f matrix.Sparse, rhs CoeffMap, result CoeffMap) {
	for id, m := range rhs {
		value := f.Mul(m)
		//
		if existing, ok := result[id]; ok {
			result[id] = existing.Add(value)
		} else {
			result[id] = value
		}
	}
}

// addCoefficients handles the n-ary sum: each full-shape argument maps via
// the identity, whilst a scalar argument is promoted across every entry of
// the result by the all-ones column.
func addCoefficients(e expression.Expression) []matrix.Sparse {
	var (
		dim    = expression.Dim(e)
		coeffs = make([]matrix.Sparse, e.NumArgs())
	)
	//
	for i, arg := range e.Args() {
		if expression.Dim(arg) == 1 && dim != 1 {
			coeffs[i] = matrix.Ones(dim, 1)
		} else {
			coeffs[i] = matrix.Identity(dim)
		}
	}
	//
	return coeffs
}

func negCoefficients(e expression.Expression) []matrix.Sparse {
	return []matrix.Sparse{matrix.ScalarMatrix(-1, expression.Dim(e))}
}

func sumEntriesCoefficients(e expression.Expression) []matrix.Sparse {
	return []matrix.Sparse{matrix.Ones(1, expression.Dim(e.Arg(0)))}
}

func reshapeCoefficients(e expression.Expression) []matrix.Sparse {
	// Column-major order is preserved, so reshaping is the identity on the
	// flattened value.
	return []matrix.Sparse{matrix.Identity(expression.Dim(e))}
}

// stackCoefficients produces the selection matrices of HStack / VStack.  The
// arguments of a vertical stack interleave column by column in the flattened
// result, whilst those of a horizontal stack lay out contiguously.
func stackCoefficients(e expression.Expression, vertical bool) []matrix.Sparse {
	var (
		size   = expression.SizeOf(e)
		coeffs = make([]matrix.Sparse, e.NumArgs())
		offset = 0
	)
	//
	for k, arg := range e.Args() {
		var (
			argSize      = expression.SizeOf(arg)
			columnOffset int
			increment    int
		)
		//
		if vertical {
			columnOffset = size.Rows
			increment = argSize.Rows
		} else {
			columnOffset = argSize.Rows
			increment = argSize.Dim()
		}
		//
		triplets := make([]matrix.Triplet, 0, argSize.Dim())
		//
		for i := range argSize.Rows {
			for j := range argSize.Cols {
				triplets = append(triplets, matrix.Triplet{
					Row: i + j*columnOffset + offset,
					Col: i + j*argSize.Rows,
					Val: 1,
				})
			}
		}
		//
		coeffs[k] = matrix.NewSparse(size.Dim(), argSize.Dim(), triplets)
		offset += increment
	}
	//
	return coeffs
}

func hstackCoefficients(e expression.Expression) []matrix.Sparse {
	return stackCoefficients(e, false)
}

func vstackCoefficients(e expression.Expression) []matrix.Sparse {
	return stackCoefficients(e, true)
}

// indexCoefficients produces the selection matrix of a two-slice index.  The
// column slice is iterated outermost so that selection order coincides with
// the column-major flattening of the sliced result.
func indexCoefficients(e expression.Expression) []matrix.Sparse {
	var (
		argSize = expression.SizeOf(e.Arg(0))
		keys    = expression.Attr[expression.IndexAttributes](e).Keys
		dim     = expression.Dim(e)
	)
	// An empty slice selects nothing
	if dim == 0 {
		return []matrix.Sparse{matrix.NewSparse(dim, argSize.Dim(), nil)}
	}
	//
	var (
		rows     = keys[0].Indices(argSize.Rows)
		cols     = keys[1].Indices(argSize.Cols)
		triplets = make([]matrix.Triplet, 0, dim)
		counter  = 0
	)
	//
	for _, col := range cols {
		for _, row := range rows {
			triplets = append(triplets, matrix.Triplet{
				Row: counter,
				Col: col*argSize.Rows + row,
				Val: 1,
			})
			counter++
		}
	}
	//
	return []matrix.Sparse{matrix.NewSparse(dim, argSize.Dim(), triplets)}
}

// diagVecCoefficients scatters a length-n vector onto the diagonal of an
// n x n matrix.
func diagVecCoefficients(e expression.Expression) []matrix.Sparse {
	n := expression.SizeOf(e).Rows
	triplets := make([]matrix.Triplet, n)
	//
	for i := range n {
		triplets[i] = matrix.Triplet{Row: i*n + i, Col: i, Val: 1}
	}
	//
	return []matrix.Sparse{matrix.NewSparse(n*n, n, triplets)}
}

// diagMatCoefficients gathers the diagonal of an n x n matrix into a
// length-n vector.
func diagMatCoefficients(e expression.Expression) []matrix.Sparse {
	n := expression.SizeOf(e).Rows
	triplets := make([]matrix.Triplet, n)
	//
	for i := range n {
		triplets[i] = matrix.Triplet{Row: i, Col: i*n + i, Val: 1}
	}
	//
	return []matrix.Sparse{matrix.NewSparse(n, n*n, triplets)}
}

// transposeCoefficients permutes flattened entries.  Indexing by the result
// shape (r,c): entry (i,j) of the result, at flat position r*j + i, reads
// entry (j,i) of the argument, at flat position i*c + j of the argument's
// flattening.
func transposeCoefficients(e expression.Expression) []matrix.Sparse {
	var (
		size     = expression.SizeOf(e)
		triplets = make([]matrix.Triplet, 0, size.Dim())
	)
	//
	for i := range size.Rows {
		for j := range size.Cols {
			triplets = append(triplets, matrix.Triplet{
				Row: size.Rows*j + i,
				Col: i*size.Cols + j,
				Val: 1,
			})
		}
	}
	//
	return []matrix.Sparse{matrix.NewSparse(size.Dim(), size.Dim(), triplets)}
}
