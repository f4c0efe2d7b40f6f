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
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Triplet identifies a single (potentially duplicated) entry of a sparse
// matrix under construction.  Duplicates targeting the same position are
// summed on assembly.
type Triplet struct {
	Row int
	Col int
	Val float64
}

// Sparse is an immutable sparse matrix over float64, stored in assembled
// triplet form.  Entries are kept in column-major order with duplicates
// summed and explicit zeros dropped, so that structurally equal matrices
// compare equal entry-for-entry.  Throughout this library a Sparse matrix is
// read as a linear map from a column-major flattened input vector to a
// column-major flattened output vector.
type Sparse struct {
	rows    int
	cols    int
	entries []Triplet
}

// NewSparse assembles a sparse matrix of the given dimensions from a set of
// triplets.  Triplets addressing the same position are summed; entries which
// sum to exactly zero are dropped.  Out-of-range triplets indicate a bug in
// the caller, hence panic.
func NewSparse(rows int, cols int, triplets []Triplet) Sparse {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("invalid sparse dimensions %dx%d", rows, cols))
	}
	//
	entries := make([]Triplet, len(triplets))
	copy(entries, triplets)
	// Canonical column-major ordering
	sort.SliceStable(entries, func(i, j int) bool {
		l, r := entries[i], entries[j]
		if l.Col != r.Col {
			return l.Col < r.Col
		}

		return l.Row < r.Row
	})
	// Sum duplicates in place
	assembled := entries[:0]
	//
	for _, t := range entries {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			panic(fmt.Sprintf("triplet (%d,%d) out of range for %dx%d matrix", t.Row, t.Col, rows, cols))
		}
		//
		n := len(assembled)
		if n > 0 && assembled[n-1].Row == t.Row && assembled[n-1].Col == t.Col {
			assembled[n-1].Val += t.Val
		} else {
			assembled = append(assembled, t)
		}
	}
	// Drop entries which cancelled out
	nonzero := assembled[:0]
	//
	for _, t := range assembled {
		if t.Val != 0 {
			nonzero = append(nonzero, t)
		}
	}
	//
	return Sparse{rows, cols, nonzero}
}

// Identity constructs the n x n identity matrix.
func Identity(n int) Sparse {
	triplets := make([]Triplet, n)
	for i := range n {
		triplets[i] = Triplet{i, i, 1}
	}

	return NewSparse(n, n, triplets)
}

// ScalarMatrix constructs v * I_n, the n x n diagonal matrix holding v.
func ScalarMatrix(v float64, n int) Sparse {
	triplets := make([]Triplet, n)
	for i := range n {
		triplets[i] = Triplet{i, i, v}
	}

	return NewSparse(n, n, triplets)
}

// Ones constructs the dense all-ones matrix of the given shape in sparse
// form.
func Ones(rows int, cols int) Sparse {
	triplets := make([]Triplet, 0, rows*cols)
	for j := range cols {
		for i := range rows {
			triplets = append(triplets, Triplet{i, j, 1})
		}
	}

	return NewSparse(rows, cols, triplets)
}

// FromDense converts a gonum dense matrix into sparse form, retaining only
// its nonzero entries.
func FromDense(d *mat.Dense) Sparse {
	rows, cols := d.Dims()
	//
	var triplets []Triplet
	//
	for j := range cols {
		for i := range rows {
			if v := d.At(i, j); v != 0 {
				triplets = append(triplets, Triplet{i, j, v})
			}
		}
	}
	//
	return NewSparse(rows, cols, triplets)
}

// Vec flattens a gonum dense matrix into a sparse column vector in
// column-major order: entry (i,j) of an r x c matrix lands at flat position
// j*r + i.
func Vec(d *mat.Dense) Sparse {
	rows, cols := d.Dims()
	//
	var triplets []Triplet
	//
	for j := range cols {
		for i := range rows {
			if v := d.At(i, j); v != 0 {
				triplets = append(triplets, Triplet{j*rows + i, 0, v})
			}
		}
	}
	//
	return NewSparse(rows*cols, 1, triplets)
}

// Rows returns the number of rows of this matrix.
func (p Sparse) Rows() int { return p.rows }

// Cols returns the number of columns of this matrix.
func (p Sparse) Cols() int { return p.cols }

// NNZ returns the number of (assembled) nonzero entries of this matrix.
func (p Sparse) NNZ() int { return len(p.entries) }

// At returns the entry at a given position, which is zero for any position
// not backed by an assembled triplet.
func (p Sparse) At(row int, col int) float64 {
	if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
		panic(fmt.Sprintf("position (%d,%d) out of range for %dx%d matrix", row, col, p.rows, p.cols))
	}
	// Entries are column-major sorted, so binary search applies.
	i := sort.Search(len(p.entries), func(i int) bool {
		t := p.entries[i]
		return t.Col > col || (t.Col == col && t.Row >= row)
	})
	//
	if i < len(p.entries) && p.entries[i].Row == row && p.entries[i].Col == col {
		return p.entries[i].Val
	}
	//
	return 0
}

// Triplets returns a copy of the assembled entries of this matrix, in
// column-major order.
func (p Sparse) Triplets() []Triplet {
	triplets := make([]Triplet, len(p.entries))
	copy(triplets, p.entries)

	return triplets
}

// Scale returns this matrix with every entry multiplied by a given scalar.
func (p Sparse) Scale(v float64) Sparse {
	triplets := p.Triplets()
	for i := range triplets {
		triplets[i].Val *= v
	}

	return NewSparse(p.rows, p.cols, triplets)
}

// Add returns the entrywise sum of two matrices of identical shape.
func (p Sparse) Add(o Sparse) Sparse {
	if p.rows != o.rows || p.cols != o.cols {
		panic(fmt.Sprintf("adding %dx%d matrix to %dx%d matrix", o.rows, o.cols, p.rows, p.cols))
	}
	//
	triplets := make([]Triplet, 0, len(p.entries)+len(o.entries))
	triplets = append(triplets, p.entries...)
	triplets = append(triplets, o.entries...)
	//
	return NewSparse(p.rows, p.cols, triplets)
}

// Mul returns the matrix product p * o.  The inner dimensions must agree.
func (p Sparse) Mul(o Sparse) Sparse {
	if p.cols != o.rows {
		panic(fmt.Sprintf("multiplying %dx%d matrix by %dx%d matrix", p.rows, p.cols, o.rows, o.cols))
	}
	// Group left-hand entries by column, being the contraction index.
	byCol := make(map[int][]Triplet, p.cols)
	for _, t := range p.entries {
		byCol[t.Col] = append(byCol[t.Col], t)
	}
	//
	var triplets []Triplet
	//
	for _, rt := range o.entries {
		for _, lt := range byCol[rt.Row] {
			triplets = append(triplets, Triplet{lt.Row, rt.Col, lt.Val * rt.Val})
		}
	}
	//
	return NewSparse(p.rows, o.cols, triplets)
}

// Reshape reinterprets this matrix under new dimensions of identical total
// size, preserving the column-major order of its entries.
func (p Sparse) Reshape(rows int, cols int) Sparse {
	if rows*cols != p.rows*p.cols {
		panic(fmt.Sprintf("reshaping %dx%d matrix as %dx%d", p.rows, p.cols, rows, cols))
	}
	//
	triplets := p.Triplets()
	for i, t := range triplets {
		flat := t.Col*p.rows + t.Row
		triplets[i] = Triplet{flat % rows, flat / rows, t.Val}
	}
	//
	return NewSparse(rows, cols, triplets)
}

// ToDense materialises this matrix as a gonum dense matrix.  Zero-sized
// matrices have no dense counterpart and yield nil.
func (p Sparse) ToDense() *mat.Dense {
	if p.rows == 0 || p.cols == 0 {
		return nil
	}
	//
	d := mat.NewDense(p.rows, p.cols, nil)
	for _, t := range p.entries {
		d.Set(t.Row, t.Col, t.Val)
	}
	//
	return d
}

// String produces a compact textual summary of this matrix, useful when
// tracing coefficient composition.
func (p Sparse) String() string {
	return fmt.Sprintf("%dx%d sparse (%d nnz)", p.rows, p.cols, len(p.entries))
}
