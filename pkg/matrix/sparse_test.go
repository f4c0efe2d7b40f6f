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
package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAssemblySumsDuplicates(t *testing.T) {
	m := NewSparse(2, 2, []Triplet{
		{0, 1, 1.5},
		{0, 1, 2.5},
		{1, 0, 3},
	})
	//
	assert.Equal(t, 2, m.NNZ())
	assert.Equal(t, 4.0, m.At(0, 1))
	assert.Equal(t, 3.0, m.At(1, 0))
	assert.Equal(t, 0.0, m.At(0, 0))
}

func TestAssemblyDropsCancellations(t *testing.T) {
	m := NewSparse(3, 3, []Triplet{
		{2, 2, 1},
		{2, 2, -1},
	})
	//
	assert.Equal(t, 0, m.NNZ())
	assert.Equal(t, 0.0, m.At(2, 2))
}

func TestAssemblyRejectsOutOfRange(t *testing.T) {
	assert.Panics(t, func() {
		NewSparse(2, 2, []Triplet{{2, 0, 1}})
	})
}

func TestTripletsAreColumnMajor(t *testing.T) {
	m := NewSparse(2, 2, []Triplet{
		{1, 1, 4},
		{0, 0, 1},
		{1, 0, 2},
		{0, 1, 3},
	})
	//
	assert.Equal(t, []Triplet{{0, 0, 1}, {1, 0, 2}, {0, 1, 3}, {1, 1, 4}}, m.Triplets())
}

func TestIdentity(t *testing.T) {
	m := Identity(3)
	//
	assert.Equal(t, 3, m.NNZ())
	//
	for i := range 3 {
		assert.Equal(t, 1.0, m.At(i, i))
	}
}

func TestScalarMatrix(t *testing.T) {
	m := ScalarMatrix(-1, 2)
	//
	assert.Equal(t, -1.0, m.At(0, 0))
	assert.Equal(t, -1.0, m.At(1, 1))
	assert.Equal(t, 0.0, m.At(0, 1))
}

func TestOnes(t *testing.T) {
	m := Ones(2, 3)
	//
	assert.Equal(t, 6, m.NNZ())
	assert.Equal(t, 1.0, m.At(1, 2))
}

func TestVecIsColumnMajor(t *testing.T) {
	// [1 3; 2 4] flattens to (1,2,3,4)
	d := mat.NewDense(2, 2, []float64{1, 3, 2, 4})
	v := Vec(d)
	//
	require.Equal(t, 4, v.Rows())
	require.Equal(t, 1, v.Cols())
	//
	for i := range 4 {
		assert.Equal(t, float64(i+1), v.At(i, 0))
	}
}

func TestFromDenseRoundTrip(t *testing.T) {
	d := mat.NewDense(2, 3, []float64{1, 0, 2, 0, 3, 0})
	m := FromDense(d)
	//
	assert.Equal(t, 3, m.NNZ())
	assert.True(t, mat.Equal(d, m.ToDense()))
}

func TestAdd(t *testing.T) {
	lhs := NewSparse(2, 2, []Triplet{{0, 0, 1}, {1, 1, 2}})
	rhs := NewSparse(2, 2, []Triplet{{0, 0, -1}, {0, 1, 5}})
	sum := lhs.Add(rhs)
	//
	assert.Equal(t, 0.0, sum.At(0, 0))
	assert.Equal(t, 5.0, sum.At(0, 1))
	assert.Equal(t, 2.0, sum.At(1, 1))
}

func TestAddShapeMismatch(t *testing.T) {
	assert.Panics(t, func() {
		Identity(2).Add(Identity(3))
	})
}

func TestMulAgainstDense(t *testing.T) {
	lhs := NewSparse(2, 3, []Triplet{{0, 0, 1}, {0, 2, 2}, {1, 1, -3}})
	rhs := NewSparse(3, 2, []Triplet{{0, 0, 4}, {1, 0, 5}, {2, 1, 6}})
	//
	var expected mat.Dense
	//
	expected.Mul(lhs.ToDense(), rhs.ToDense())
	//
	assert.True(t, mat.EqualApprox(&expected, lhs.Mul(rhs).ToDense(), 1e-12))
}

func TestMulShapeMismatch(t *testing.T) {
	assert.Panics(t, func() {
		Identity(2).Mul(Identity(3))
	})
}

func TestScale(t *testing.T) {
	m := Identity(2).Scale(2.5)
	//
	assert.Equal(t, 2.5, m.At(0, 0))
	assert.Equal(t, 2.5, m.At(1, 1))
	// Scaling to zero empties the matrix
	assert.Equal(t, 0, m.Scale(0).NNZ())
}

func TestReshapePreservesColumnMajorOrder(t *testing.T) {
	// (2,3) entry (i,j) at flat j*2+i moves to (flat%3, flat/3) in (3,2)
	d := mat.NewDense(2, 3, []float64{1, 3, 5, 2, 4, 6})
	m := FromDense(d).Reshape(3, 2)
	//
	expected := mat.NewDense(3, 2, []float64{1, 4, 2, 5, 3, 6})
	assert.True(t, mat.Equal(expected, m.ToDense()))
}

func TestReshapeBadDimensions(t *testing.T) {
	assert.Panics(t, func() {
		Identity(2).Reshape(3, 2)
	})
}

func TestEmptyMatrixHasNoDense(t *testing.T) {
	m := NewSparse(0, 4, nil)
	//
	assert.Nil(t, m.ToDense())
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 4, m.Cols())
}
