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
package transform

import (
	"fmt"

	"github.com/consensys/go-conic/pkg/expression"
	log "github.com/sirupsen/logrus"
)

// transformFunc rewrites one occurrence of a nonlinear atom (whose children
// are already affine) into an affine surrogate, appending any constraints
// binding the surrogate to the accumulator.
type transformFunc func(expression.Expression, *[]expression.Expression) (expression.Expression, error)

// transforms registers the nonlinear atoms eliminated by the cone transform.
// Anything not listed here is passed through untouched, on the grounds that
// it is affine once its children are; if it is not, the coefficient
// extractor rejects it downstream.
var transforms = map[expression.Type]transformFunc{
	expression.Abs:         transformAbs,
	expression.PNorm:       transformPNorm,
	expression.QuadOverLin: transformQuadOverLin,
}

// LinearConeTransform rewrites a problem into an equivalent one whose every
// subexpression is affine, pushing all nonlinearity into auxiliary epigraph
// variables bound by linear-inequality and second-order cone constraints.
type LinearConeTransform struct{}

// Transform applies the cone rewrite to the objective and every constraint
// of a problem.  The resulting problem ranges over an enlarged variable
// space and carries the emitted auxiliary constraints alongside the
// transformed originals.
func (p LinearConeTransform) Transform(problem expression.Problem) (expression.Problem, error) {
	var constraints []expression.Expression
	//
	objective, err := TransformExpression(problem.Objective, &constraints)
	if err != nil {
		return expression.Problem{}, err
	}
	//
	for _, c := range problem.Constraints {
		transformed, err := TransformExpression(c, &constraints)
		if err != nil {
			return expression.Problem{}, err
		}
		//
		constraints = append(constraints, transformed)
	}
	//
	return expression.Problem{
		Sense:       problem.Sense,
		Objective:   objective,
		Constraints: constraints,
	}, nil
}

// TransformExpression rewrites an expression bottom-up, replacing every
// registered nonlinear atom with a fresh epigraph variable and appending the
// constraints which bind it.  The returned expression agrees in value with
// the original at every feasible point of the enlarged variable space.
func TransformExpression(e expression.Expression,
	constraints *[]expression.Expression) (expression.Expression, error) {
	// Children first
	args := make([]expression.Expression, e.NumArgs())
	//
	for i, arg := range e.Args() {
		var err error
		if args[i], err = TransformExpression(arg, constraints); err != nil {
			return expression.Expression{}, err
		}
	}
	// Rebuild this node over the affine children
	output := e
	if e.NumArgs() > 0 {
		output = expression.New(e.Type(), args, e.Attrs())
	}
	// Rewrite this node, if nonlinear
	if fn, ok := transforms[e.Type()]; ok {
		log.Debugf("rewriting %s", output)
		return fn(output, constraints)
	}
	//
	return output, nil
}

// transformAbs replaces |x| by an epigraph variable t of the same shape,
// subject to x <= t and -x <= t.
func transformAbs(e expression.Expression,
	constraints *[]expression.Expression) (expression.Expression, error) {
	//
	x := e.Arg(0)
	t := expression.EpiVar(e, "abs")
	//
	*constraints = append(*constraints,
		expression.NewLeq(x, t),
		expression.NewLeq(expression.NewNeg(x), t))
	//
	return t, nil
}

// transformPNorm handles the entrywise 1-norm, being the entry sum of the
// absolute-value rewrite.  No other norm parameter lowers to the cones
// supported here.
func transformPNorm(e expression.Expression,
	constraints *[]expression.Expression) (expression.Expression, error) {
	//
	if p := expression.Attr[expression.PNormAttributes](e).P; p != 1 {
		return expression.Expression{}, fmt.Errorf("unsupported p_norm with p=%v", p)
	}
	//
	t, err := transformAbs(expression.NewAbs(e.Arg(0)), constraints)
	if err != nil {
		return expression.Expression{}, err
	}
	//
	return expression.NewSumEntries(t), nil
}

// transformQuadOverLin replaces x'x/y by a scalar epigraph variable t,
// subject to ||(y - t, 2x)||_2 <= y + t and 0 <= y.
func transformQuadOverLin(e expression.Expression,
	constraints *[]expression.Expression) (expression.Expression, error) {
	//
	x, y := e.Arg(0), e.Arg(1)
	t := expression.ScalarEpiVar(e, "qol")
	//
	*constraints = append(*constraints,
		expression.NewSOC(
			expression.NewVStack(
				expression.NewAdd(y, expression.NewNeg(t)),
				expression.NewMul(expression.NewConstantScalar(2), x)),
			expression.NewAdd(y, t)),
		expression.NewLeq(expression.NewConstantScalar(0), y))
	//
	return t, nil
}
