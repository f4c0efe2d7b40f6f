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

// mulCoefficients handles the binary matrix product, which by the DCP rules
// has exactly one constant operand.  The constant side is folded into a
// single sparse operator over the flattened domain which then pre-multiplies
// every coefficient of the unknown side.
func mulCoefficients(e expression.Expression) (CoeffMap, error) {
	if e.NumArgs() != 2 {
		return nil, fmt.Errorf("product with %d operands: %s", e.NumArgs(), e)
	}
	//
	lhs, err := Coefficients(e.Arg(0))
	if err != nil {
		return nil, err
	}
	//
	rhs, err := Coefficients(e.Arg(1))
	if err != nil {
		return nil, err
	}
	//
	coeffs := make(CoeffMap)
	//
	switch {
	case IsConstant(lhs):
		block := unflatten(lhs[ConstID], expression.SizeOf(e.Arg(0)))
		accumulate(leftMulOperator(e, block), rhs, coeffs)
	case IsConstant(rhs):
		constant := unflatten(rhs[ConstID], expression.SizeOf(e.Arg(1)))
		accumulate(rightMulOperator(e, constant), lhs, coeffs)
	default:
		return nil, fmt.Errorf("multiplying two non-constant expressions: %s", e)
	}
	//
	return coeffs, nil
}

// unflatten restores the matrix shape of a constant held in flattened form
// within a coefficient map.
func unflatten(vec matrix.Sparse, size expression.Size) matrix.Sparse {
	return vec.Reshape(size.Rows, size.Cols)
}

// leftMulOperator encodes multiplication by a constant block B on the left.
// Each of the n columns of the unknown operand is mapped independently
// through B, so the operator is block diagonal with n copies of B.  A scalar
// block simply rescales every entry of the result.
func leftMulOperator(e expression.Expression, block matrix.Sparse) matrix.Sparse {
	if block.Rows()*block.Cols() == 1 {
		return matrix.ScalarMatrix(block.At(0, 0), expression.Dim(e))
	}
	//
	var (
		numBlocks = expression.SizeOf(e).Cols
		entries   = block.Triplets()
		triplets  = make([]matrix.Triplet, 0, numBlocks*len(entries))
	)
	//
	log.Tracef("left-multiplying by %s across %d blocks", block, numBlocks)
	//
	for b := range numBlocks {
		for _, t := range entries {
			triplets = append(triplets, matrix.Triplet{
				Row: b*block.Rows() + t.Row,
				Col: b*block.Cols() + t.Col,
				Val: t.Val,
			})
		}
	}
	//
	return matrix.NewSparse(numBlocks*block.Rows(), numBlocks*block.Cols(), triplets)
}

// rightMulOperator encodes multiplication by a constant B on the right.
// Each nonzero B[i,j] contributes a scaled m x m identity mapping column i
// of the unknown operand into column j of the result, m being the common row
// count.  A scalar constant simply rescales every entry of the result.
func rightMulOperator(e expression.Expression, constant matrix.Sparse) matrix.Sparse {
	if constant.Rows()*constant.Cols() == 1 {
		return matrix.ScalarMatrix(constant.At(0, 0), expression.Dim(e))
	}
	//
	var (
		m        = expression.SizeOf(e).Rows
		entries  = constant.Triplets()
		triplets = make([]matrix.Triplet, 0, m*len(entries))
	)
	//
	log.Tracef("right-multiplying by %s with %d rows", constant, m)
	//
	for _, t := range entries {
		for i := range m {
			triplets = append(triplets, matrix.Triplet{
				Row: t.Col*m + i,
				Col: t.Row*m + i,
				Val: t.Val,
			})
		}
	}
	//
	return matrix.NewSparse(constant.Cols()*m, constant.Rows()*m, triplets)
}
