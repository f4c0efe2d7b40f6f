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

// Type identifies the operator (or leaf kind) of an expression node.  The
// enumeration is closed: the canonicalisation pipelines dispatch on it
// exhaustively, and an unlisted type reaching them is a structural error.
type Type int

// The set of recognised expression types.  Affine operators come first,
// followed by the nonlinear atoms eliminated by the cone transform, and
// finally the constraint forms.
const (
	// Const is a leaf holding a dense numeric matrix.
	Const Type = iota
	// Var is a leaf referencing an optimisation variable.
	Var
	// Add is the n-ary elementwise sum, with scalar promotion.
	Add
	// Neg is unary negation.
	Neg
	// Mul is binary matrix multiplication, where one operand is constant.
	Mul
	// SumEntries reduces a matrix to the scalar sum of its entries.
	SumEntries
	// HStack concatenates its arguments column-wise.
	HStack
	// VStack concatenates its arguments row-wise.
	VStack
	// Reshape reinterprets the shape of its argument, preserving
	// column-major order.
	Reshape
	// Index selects a rectangular (strided) submatrix of its argument.
	Index
	// DiagVec embeds a vector as the diagonal of a square matrix.
	DiagVec
	// DiagMat extracts the diagonal of a square matrix as a vector.
	DiagMat
	// Transpose is matrix transposition.
	Transpose
	// Abs is the elementwise absolute value.
	Abs
	// PNorm is the entrywise p-norm.
	PNorm
	// QuadOverLin is sum_squares(x) / y for scalar y.
	QuadOverLin
	// Eq is the elementwise equality constraint.
	Eq
	// Leq is the elementwise less-or-equal constraint.
	Leq
	// SOC is the second-order cone constraint ||v||_2 <= w.
	SOC
)

// String returns the operator name used when rendering expressions as
// s-expressions.
func (t Type) String() string {
	switch t {
	case Const:
		return "const"
	case Var:
		return "var"
	case Add:
		return "+"
	case Neg:
		return "neg"
	case Mul:
		return "*"
	case SumEntries:
		return "sum_entries"
	case HStack:
		return "hstack"
	case VStack:
		return "vstack"
	case Reshape:
		return "reshape"
	case Index:
		return "index"
	case DiagVec:
		return "diag_vec"
	case DiagMat:
		return "diag_mat"
	case Transpose:
		return "transpose"
	case Abs:
		return "abs"
	case PNorm:
		return "p_norm"
	case QuadOverLin:
		return "quad_over_lin"
	case Eq:
		return "=="
	case Leq:
		return "<="
	case SOC:
		return "soc"
	}
	//
	return fmt.Sprintf("type(%d)", int(t))
}

// Expression is an immutable node of an optimisation-problem syntax tree: a
// type tag, an ordered list of children whose arity is dictated by the type,
// and (for some types) an attribute record.  Expressions are values; sharing
// subtrees between expressions is safe.
type Expression struct {
	typ   Type
	args  []Expression
	attrs any
}

// New constructs an expression node directly from its parts.  Most callers
// want the typed constructors instead, which enforce arity and attach the
// appropriate attribute record.
func New(typ Type, args []Expression, attrs any) Expression {
	return Expression{typ, args, attrs}
}

// Type returns the type tag of this node.
func (e Expression) Type() Type { return e.typ }

// Args returns the children of this node.  The returned slice must not be
// mutated.
func (e Expression) Args() []Expression { return e.args }

// NumArgs returns the number of children of this node.
func (e Expression) NumArgs() int { return len(e.args) }

// Arg returns the ith child of this node.
func (e Expression) Arg(i int) Expression { return e.args[i] }

// Attrs returns the raw attribute record of this node, or nil when its type
// carries none.  See Attr for the typed accessor.
func (e Expression) Attrs() any { return e.attrs }

// Attr returns the attribute record of an expression under a given type.  A
// node whose attributes do not match the requested type indicates a
// malformed tree, hence panic.
func Attr[T any](e Expression) T {
	attrs, ok := e.attrs.(T)
	if !ok {
		panic(fmt.Sprintf("expression %s has attributes %T, not %T", e.typ, e.attrs, attrs))
	}
	//
	return attrs
}
