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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Evaluate computes the value of an expression under a given assignment of
// dense values to variable identifiers.  Constraint nodes have no value and
// are rejected, as is any variable missing from the assignment.
//
//nolint:gocyclo
func Evaluate(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	switch e.Type() {
	case Const:
		return mat.DenseCopyOf(Attr[ConstAttributes](e).Data), nil
	case Var:
		attrs := Attr[VarAttributes](e)
		//
		value, ok := env[attrs.ID]
		if !ok {
			return nil, fmt.Errorf("unassigned variable v%d", attrs.ID)
		}
		//
		return mat.DenseCopyOf(value), nil
	case Add:
		return evalAdd(e, env)
	case Neg:
		arg, err := Evaluate(e.Arg(0), env)
		if err != nil {
			return nil, err
		}
		//
		arg.Scale(-1, arg)
		//
		return arg, nil
	case Mul:
		return evalMul(e, env)
	case SumEntries:
		arg, err := Evaluate(e.Arg(0), env)
		if err != nil {
			return nil, err
		}
		//
		return mat.NewDense(1, 1, []float64{mat.Sum(arg)}), nil
	case HStack, VStack:
		return evalStack(e, env)
	case Reshape:
		return evalReshape(e, env)
	case Index:
		return evalIndex(e, env)
	case DiagVec:
		return evalDiagVec(e, env)
	case DiagMat:
		return evalDiagMat(e, env)
	case Transpose:
		arg, err := Evaluate(e.Arg(0), env)
		if err != nil {
			return nil, err
		}
		//
		var value mat.Dense
		//
		value.CloneFrom(arg.T())
		//
		return &value, nil
	case Abs:
		arg, err := Evaluate(e.Arg(0), env)
		if err != nil {
			return nil, err
		}
		//
		arg.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, arg)
		//
		return arg, nil
	case PNorm:
		return evalPNorm(e, env)
	case QuadOverLin:
		return evalQuadOverLin(e, env)
	}
	//
	return nil, fmt.Errorf("expression %s has no value", e)
}

func evalAdd(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	size := SizeOf(e)
	sum := mat.NewDense(size.Rows, size.Cols, nil)
	//
	for _, arg := range e.Args() {
		value, err := Evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		// Promote scalar arguments
		if r, c := value.Dims(); r*c == 1 && size.Dim() != 1 {
			v := value.At(0, 0)
			sum.Apply(func(_, _ int, u float64) float64 { return u + v }, sum)
		} else {
			sum.Add(sum, value)
		}
	}
	//
	return sum, nil
}

func evalMul(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	lhs, err := Evaluate(e.Arg(0), env)
	if err != nil {
		return nil, err
	}
	//
	rhs, err := Evaluate(e.Arg(1), env)
	if err != nil {
		return nil, err
	}
	// Scalar operands rescale rather than contract.
	if r, c := lhs.Dims(); r*c == 1 {
		rhs.Scale(lhs.At(0, 0), rhs)
		return rhs, nil
	} else if r, c := rhs.Dims(); r*c == 1 {
		lhs.Scale(rhs.At(0, 0), lhs)
		return lhs, nil
	}
	//
	var value mat.Dense
	//
	value.Mul(lhs, rhs)
	//
	return &value, nil
}

func evalStack(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	size := SizeOf(e)
	value := mat.NewDense(size.Rows, size.Cols, nil)
	offset := 0
	//
	for _, arg := range e.Args() {
		argValue, err := Evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		//
		r, c := argValue.Dims()
		//
		if e.Type() == HStack {
			value.Slice(0, r, offset, offset+c).(*mat.Dense).Copy(argValue)
			offset += c
		} else {
			value.Slice(offset, offset+r, 0, c).(*mat.Dense).Copy(argValue)
			offset += r
		}
	}
	//
	return value, nil
}

func evalReshape(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	arg, err := Evaluate(e.Arg(0), env)
	if err != nil {
		return nil, err
	}
	//
	var (
		size  = Attr[ReshapeAttributes](e).Size
		r, _  = arg.Dims()
		value = mat.NewDense(size.Rows, size.Cols, nil)
	)
	// Walk both matrices in column-major order.
	for k := range size.Dim() {
		value.Set(k%size.Rows, k/size.Rows, arg.At(k%r, k/r))
	}
	//
	return value, nil
}

func evalIndex(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	arg, err := Evaluate(e.Arg(0), env)
	if err != nil {
		return nil, err
	}
	//
	var (
		keys = Attr[IndexAttributes](e).Keys
		r, c = arg.Dims()
		rows = keys[0].Indices(r)
		cols = keys[1].Indices(c)
	)
	//
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("empty selection %s", e)
	}
	//
	value := mat.NewDense(len(rows), len(cols), nil)
	//
	for i, row := range rows {
		for j, col := range cols {
			value.Set(i, j, arg.At(row, col))
		}
	}
	//
	return value, nil
}

func evalDiagVec(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	arg, err := Evaluate(e.Arg(0), env)
	if err != nil {
		return nil, err
	}
	//
	n, _ := arg.Dims()
	value := mat.NewDense(n, n, nil)
	//
	for i := range n {
		value.Set(i, i, arg.At(i, 0))
	}
	//
	return value, nil
}

func evalDiagMat(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	arg, err := Evaluate(e.Arg(0), env)
	if err != nil {
		return nil, err
	}
	//
	n, _ := arg.Dims()
	value := mat.NewDense(n, 1, nil)
	//
	for i := range n {
		value.Set(i, 0, arg.At(i, i))
	}
	//
	return value, nil
}

func evalPNorm(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	arg, err := Evaluate(e.Arg(0), env)
	if err != nil {
		return nil, err
	}
	//
	var (
		p    = Attr[PNormAttributes](e).P
		r, c = arg.Dims()
		sum  = 0.0
	)
	//
	for j := range c {
		for i := range r {
			sum += math.Pow(math.Abs(arg.At(i, j)), p)
		}
	}
	//
	return mat.NewDense(1, 1, []float64{math.Pow(sum, 1/p)}), nil
}

func evalQuadOverLin(e Expression, env map[int64]*mat.Dense) (*mat.Dense, error) {
	x, err := Evaluate(e.Arg(0), env)
	if err != nil {
		return nil, err
	}
	//
	y, err := Evaluate(e.Arg(1), env)
	if err != nil {
		return nil, err
	}
	//
	sum := 0.0
	//
	r, c := x.Dims()
	for j := range c {
		for i := range r {
			sum += x.At(i, j) * x.At(i, j)
		}
	}
	//
	return mat.NewDense(1, 1, []float64{sum / y.At(0, 0)}), nil
}
