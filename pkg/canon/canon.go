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
	"fmt"

	"github.com/consensys/go-conic/pkg/expression"
	"github.com/consensys/go-conic/pkg/linear"
	"github.com/consensys/go-conic/pkg/matrix"
	"github.com/consensys/go-conic/pkg/transform"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// ConeType identifies the cone a slack block belongs to.
type ConeType int

const (
	// ZeroCone forces its block to equal zero (equality constraints).
	ZeroCone ConeType = iota
	// NonNegativeCone forces its block entrywise non-negative.
	NonNegativeCone
	// SecondOrderCone forces the first entry of its block to dominate the
	// Euclidean norm of the remainder.
	SecondOrderCone
)

// String implements the fmt.Stringer interface.
func (t ConeType) String() string {
	switch t {
	case ZeroCone:
		return "zero"
	case NonNegativeCone:
		return "nonneg"
	case SecondOrderCone:
		return "soc"
	}
	//
	return fmt.Sprintf("cone(%d)", int(t))
}

// Cone describes one slack block of a canonical form.
type Cone struct {
	Type ConeType
	Dim  int
}

// VarInfo locates one variable of the canonical form within the stacked
// decision vector.
type VarInfo struct {
	expression.VarAttributes
	// Offset is the position of the variable's first entry within the
	// stacked decision vector.
	Offset int
}

// CanonicalForm is the conic program A*z + s = b, s in K, minimising (or
// maximising) c'z + offset, where z stacks the column-major flattenings of
// every variable in order of first occurrence in the cone-transformed
// problem (objective first, then constraints) and K is the product of the
// listed cones.  This is the shape consumed by downstream conic solvers.
type CanonicalForm struct {
	Sense  expression.Sense
	C      *mat.VecDense
	Offset float64
	A      matrix.Sparse
	B      *mat.VecDense
	Cones  []Cone
	Vars   []VarInfo
}

// NumVars returns the length of the stacked decision vector.
func (p *CanonicalForm) NumVars() int {
	n := 0
	for _, v := range p.Vars {
		n += v.Size.Dim()
	}
	//
	return n
}

// Canonicalize lowers a problem to canonical conic form: the cone transform
// renders every subexpression affine, after which the coefficient extractor
// turns the objective and each constraint into rows of a stacked sparse
// system.
func Canonicalize(problem expression.Problem) (*CanonicalForm, error) {
	transformed, err := transform.LinearConeTransform{}.Transform(problem)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("canonicalizing %d variables, %d constraints",
		len(transformed.Variables()), len(transformed.Constraints))
	//
	builder := newBuilder(transformed.Variables())
	//
	if err := builder.objective(transformed.Objective); err != nil {
		return nil, err
	}
	//
	for _, c := range transformed.Constraints {
		if err := builder.constraint(c); err != nil {
			return nil, err
		}
	}
	//
	form := builder.form
	form.Sense = transformed.Sense
	form.A = matrix.NewSparse(builder.rows, builder.numVars, builder.triplets)
	// gonum vectors cannot be empty, hence B stays nil for an
	// unconstrained problem.
	if builder.rows > 0 {
		form.B = mat.NewVecDense(builder.rows, builder.b)
	}
	//
	return &form, nil
}

// builder accumulates the rows of a canonical form as constraints are
// lowered one by one.
type builder struct {
	form     CanonicalForm
	offsets  map[int64]int
	numVars  int
	rows     int
	triplets []matrix.Triplet
	b        []float64
}

func newBuilder(vars []expression.VarAttributes) *builder {
	p := &builder{offsets: make(map[int64]int)}
	//
	for _, v := range vars {
		p.form.Vars = append(p.form.Vars, VarInfo{v, p.numVars})
		p.offsets[v.ID] = p.numVars
		p.numVars += v.Size.Dim()
	}
	//
	return p
}

// objective lowers the (scalar, affine) objective expression into the cost
// vector c and constant offset.
func (p *builder) objective(e expression.Expression) error {
	if expression.Dim(e) != 1 {
		return fmt.Errorf("objective %s is not scalar", e)
	}
	//
	coeffs, err := linear.Coefficients(e)
	if err != nil {
		return err
	}
	//
	// As with B, a variable-free problem leaves C nil.
	if p.numVars > 0 {
		p.form.C = mat.NewVecDense(p.numVars, nil)
	}
	//
	for id, m := range coeffs {
		if id == linear.ConstID {
			p.form.Offset = m.At(0, 0)
			continue
		}
		//
		offset := p.offsets[id]
		for _, t := range m.Triplets() {
			p.form.C.SetVec(offset+t.Col, t.Val)
		}
	}
	//
	return nil
}

// constraint lowers one constraint expression into rows of (A, b) together
// with a cone descriptor.
func (p *builder) constraint(e expression.Expression) error {
	switch e.Type() {
	case expression.Eq, expression.Leq:
		// Residual lhs - rhs, constrained to the zero or nonnegative cone
		// via s = b - A*z.
		residual := expression.NewAdd(e.Arg(0), expression.NewNeg(e.Arg(1)))
		//
		cone := ZeroCone
		if e.Type() == expression.Leq {
			cone = NonNegativeCone
		}
		//
		return p.appendRows(residual, cone, false)
	case expression.SOC:
		// Stack the bound w above the vector v; the slack must hold the
		// value itself, so rows are negated.
		stacked := expression.NewVStack(e.Arg(1), e.Arg(0))
		return p.appendRows(stacked, SecondOrderCone, true)
	}
	//
	return fmt.Errorf("unrecognised constraint %s", e)
}

// appendRows extracts the coefficients of an affine expression and appends
// them as one cone block.  With value true the slack equals the expression
// itself (s = expr, so A rows negate); otherwise the slack is its negation
// (s = -expr).
func (p *builder) appendRows(e expression.Expression, cone ConeType, value bool) error {
	coeffs, err := linear.Coefficients(e)
	if err != nil {
		return err
	}
	//
	dim := expression.Dim(e)
	sign := 1.0
	//
	if value {
		sign = -1
	}
	//
	block := make([]float64, dim)
	//
	for id, m := range coeffs {
		if id == linear.ConstID {
			for _, t := range m.Triplets() {
				block[t.Row] = -sign * t.Val
			}
			//
			continue
		}
		//
		offset := p.offsets[id]
		for _, t := range m.Triplets() {
			p.triplets = append(p.triplets, matrix.Triplet{
				Row: p.rows + t.Row,
				Col: offset + t.Col,
				Val: sign * t.Val,
			})
		}
	}
	//
	p.b = append(p.b, block...)
	p.rows += dim
	p.form.Cones = append(p.form.Cones, Cone{cone, dim})
	//
	return nil
}
