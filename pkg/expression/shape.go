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

import "fmt"

// SizeOf determines the shape of an expression structurally, from its type,
// its attributes and the shapes of its children.  Shapes are total: every
// well-formed expression has one, and the canonicalisation pipelines lean on
// this as an oracle.
//
//nolint:gocyclo
func SizeOf(e Expression) Size {
	switch e.Type() {
	case Const:
		return Attr[ConstAttributes](e).Size()
	case Var:
		return Attr[VarAttributes](e).Size
	case Add, Eq, Leq:
		// Elementwise, with scalar promotion: the result takes the shape
		// of the first non-scalar argument.
		for _, arg := range e.Args() {
			if size := SizeOf(arg); size.Dim() != 1 {
				return size
			}
		}
		//
		return Size{1, 1}
	case Neg, Abs:
		return SizeOf(e.Arg(0))
	case Mul:
		lhs, rhs := SizeOf(e.Arg(0)), SizeOf(e.Arg(1))
		// Scalar operands promote rather than contract.
		if lhs.Dim() == 1 {
			return rhs
		} else if rhs.Dim() == 1 {
			return lhs
		}
		//
		return Size{lhs.Rows, rhs.Cols}
	case SumEntries, PNorm, QuadOverLin, SOC:
		return Size{1, 1}
	case HStack:
		size := SizeOf(e.Arg(0))
		for _, arg := range e.Args()[1:] {
			size.Cols += SizeOf(arg).Cols
		}
		//
		return size
	case VStack:
		size := SizeOf(e.Arg(0))
		for _, arg := range e.Args()[1:] {
			size.Rows += SizeOf(arg).Rows
		}
		//
		return size
	case Reshape:
		return Attr[ReshapeAttributes](e).Size
	case Index:
		keys := Attr[IndexAttributes](e).Keys
		arg := SizeOf(e.Arg(0))
		//
		return Size{len(keys[0].Indices(arg.Rows)), len(keys[1].Indices(arg.Cols))}
	case DiagVec:
		n := SizeOf(e.Arg(0)).Rows
		return Size{n, n}
	case DiagMat:
		return Size{SizeOf(e.Arg(0)).Rows, 1}
	case Transpose:
		size := SizeOf(e.Arg(0))
		return Size{size.Cols, size.Rows}
	}
	//
	panic(fmt.Sprintf("no shape rule for expression %s", e.Type()))
}

// Dim returns the total number of entries of an expression, being the length
// of its column-major flattening.
func Dim(e Expression) int {
	return SizeOf(e).Dim()
}
