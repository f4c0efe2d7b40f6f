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

	"gonum.org/v1/gonum/mat"
)

// Size is the shape of an expression.  Expressions are matrices throughout:
// scalars have shape (1,1) and vectors shape (n,1).
type Size struct {
	Rows int
	Cols int
}

// Dim returns the total number of entries of this shape, being the length of
// its column-major flattening.
func (p Size) Dim() int { return p.Rows * p.Cols }

// String implements the fmt.Stringer interface.
func (p Size) String() string { return fmt.Sprintf("%dx%d", p.Rows, p.Cols) }

// Slice selects every step-th index from start towards stop.  Start and stop
// may be negative, in which case they count from the end of the dimension
// being sliced.  The stop bound is tested only after each step (see
// Indices): a positive step excludes the stop index, a negative step walks
// backwards and includes it, and a start index within range is always
// selected.  A zero step is meaningless and rejected by NewIndex.
type Slice struct {
	Start int
	Stop  int
	Step  int
}

// Normalise resolves negative start/stop values of this slice against the
// extent of the dimension being sliced.
func (p Slice) Normalise(dim int) Slice {
	start, stop := p.Start, p.Stop
	if start < 0 {
		start += dim
	}

	if stop < 0 {
		stop += dim
	}

	return Slice{start, stop, p.Step}
}

// Indices enumerates the indices selected by this slice over a dimension of
// a given extent, in selection order.  Negative bounds are normalised first.
// The stop bound is checked after each advance, so a start index within
// range always selects at least one element.
func (p Slice) Indices(dim int) []int {
	var (
		s       = p.Normalise(dim)
		indices []int
	)
	//
	for i := s.Start; i >= 0 && i < dim; i += s.Step {
		indices = append(indices, i)
		//
		if next := i + s.Step; (s.Step > 0 && next >= s.Stop) || (s.Step < 0 && next < s.Stop) {
			break
		}
	}
	//
	return indices
}

// VarAttributes identify the optimisation variable referenced by a Var leaf.
type VarAttributes struct {
	// ID is the globally unique identifier of the variable.
	ID int64
	// Size is the shape of the variable.
	Size Size
	// Name is an optional human-readable label, used only for printing.
	Name string
}

// ConstAttributes hold the value of a Const leaf.
type ConstAttributes struct {
	// Data is the dense value of the constant.  It is owned by the
	// expression and must not be mutated.
	Data *mat.Dense
}

// Size returns the shape of the constant.
func (p ConstAttributes) Size() Size {
	rows, cols := p.Data.Dims()
	return Size{rows, cols}
}

// IndexAttributes carry the row and column slices of an Index node.
type IndexAttributes struct {
	// Keys holds the row slice followed by the column slice.
	Keys [2]Slice
}

// PNormAttributes carry the norm parameter of a PNorm node.
type PNormAttributes struct {
	P float64
}

// ReshapeAttributes carry the target shape of a Reshape node, which must
// have the same total dimension as the argument.
type ReshapeAttributes struct {
	Size Size
}
