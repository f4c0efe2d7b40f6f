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
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// JsonExpression is the serialised form of an expression node.  The operator
// is identified by name; attribute fields are populated only for the
// operators which carry them.
type JsonExpression struct {
	Op   string           `json:"op"`
	Args []JsonExpression `json:"args,omitempty"`
	// Var attributes
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Rows int    `json:"rows,omitempty"`
	Cols int    `json:"cols,omitempty"`
	// Const attributes, row by row
	Data [][]float64 `json:"data,omitempty"`
	// Index attributes
	Keys []JsonSlice `json:"keys,omitempty"`
	// PNorm attributes
	P *float64 `json:"p,omitempty"`
}

// JsonSlice is the serialised form of a slice.
type JsonSlice struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
	Step  int `json:"step"`
}

// JsonProblem is the serialised form of a problem.
type JsonProblem struct {
	Sense       string           `json:"sense"`
	Objective   JsonExpression   `json:"objective"`
	Constraints []JsonExpression `json:"constraints,omitempty"`
}

// jsonOps maps operator names to expression types.  Leaf and attributed
// operators are handled separately during translation.
var jsonOps = map[string]Type{
	"add": Add, "neg": Neg, "mul": Mul, "sum_entries": SumEntries,
	"hstack": HStack, "vstack": VStack, "reshape": Reshape, "index": Index,
	"diag_vec": DiagVec, "diag_mat": DiagMat, "transpose": Transpose,
	"abs": Abs, "p_norm": PNorm, "quad_over_lin": QuadOverLin,
	"eq": Eq, "leq": Leq, "soc": SOC,
}

// jsonOpNames is the inverse of jsonOps.
var jsonOpNames = func() map[Type]string {
	names := make(map[Type]string, len(jsonOps))
	for name, typ := range jsonOps {
		names[typ] = name
	}
	//
	return names
}()

// ProblemFromJson parses a problem from its JSON serialisation.
func ProblemFromJson(data []byte) (Problem, error) {
	var jp JsonProblem
	if err := json.Unmarshal(data, &jp); err != nil {
		return Problem{}, err
	}
	//
	return jp.ToProblem()
}

// ProblemToJson serialises a problem as JSON.
func ProblemToJson(p Problem) ([]byte, error) {
	return json.MarshalIndent(ToJsonProblem(p), "", "  ")
}

// ToProblem translates a parsed JSON problem into a problem.
func (p JsonProblem) ToProblem() (Problem, error) {
	var sense Sense
	//
	switch p.Sense {
	case "minimize", "":
		sense = Minimize
	case "maximize":
		sense = Maximize
	default:
		return Problem{}, fmt.Errorf("unknown sense %q", p.Sense)
	}
	//
	objective, err := p.Objective.ToExpression()
	if err != nil {
		return Problem{}, err
	}
	//
	constraints := make([]Expression, len(p.Constraints))
	//
	for i, jc := range p.Constraints {
		if constraints[i], err = jc.ToExpression(); err != nil {
			return Problem{}, err
		}
	}
	//
	return Problem{sense, objective, constraints}, nil
}

// ToExpression translates a parsed JSON expression into an expression.
func (e JsonExpression) ToExpression() (Expression, error) {
	// Leaves first
	switch e.Op {
	case "var":
		if e.ID == nil {
			return Expression{}, fmt.Errorf("variable without id")
		}
		//
		return NewVar(*e.ID, Size{e.Rows, e.Cols}, e.Name), nil
	case "const":
		return e.toConstant()
	}
	//
	typ, ok := jsonOps[e.Op]
	if !ok {
		return Expression{}, fmt.Errorf("unknown operator %q", e.Op)
	}
	//
	args := make([]Expression, len(e.Args))
	//
	for i, ja := range e.Args {
		var err error
		if args[i], err = ja.ToExpression(); err != nil {
			return Expression{}, err
		}
	}
	//
	switch typ {
	case Index:
		if len(e.Keys) != 2 {
			return Expression{}, fmt.Errorf("index requires two slices, got %d", len(e.Keys))
		}
		//
		keys := [2]Slice{
			{e.Keys[0].Start, e.Keys[0].Stop, e.Keys[0].Step},
			{e.Keys[1].Start, e.Keys[1].Stop, e.Keys[1].Step},
		}
		//
		return New(Index, args, IndexAttributes{keys}), nil
	case PNorm:
		if e.P == nil {
			return Expression{}, fmt.Errorf("p_norm without p")
		}
		//
		return New(PNorm, args, PNormAttributes{*e.P}), nil
	case Reshape:
		return New(Reshape, args, ReshapeAttributes{Size{e.Rows, e.Cols}}), nil
	}
	//
	return New(typ, args, nil), nil
}

func (e JsonExpression) toConstant() (Expression, error) {
	if len(e.Data) == 0 || len(e.Data[0]) == 0 {
		return Expression{}, fmt.Errorf("constant without data")
	}
	//
	rows, cols := len(e.Data), len(e.Data[0])
	data := mat.NewDense(rows, cols, nil)
	//
	for i, row := range e.Data {
		if len(row) != cols {
			return Expression{}, fmt.Errorf("ragged constant data (row %d)", i)
		}
		//
		for j, v := range row {
			data.Set(i, j, v)
		}
	}
	//
	return NewConstant(data), nil
}

// ToJsonProblem translates a problem into its serialisable form.
func ToJsonProblem(p Problem) JsonProblem {
	constraints := make([]JsonExpression, len(p.Constraints))
	for i, c := range p.Constraints {
		constraints[i] = ToJsonExpression(c)
	}
	//
	return JsonProblem{p.Sense.String(), ToJsonExpression(p.Objective), constraints}
}

// ToJsonExpression translates an expression into its serialisable form.
func ToJsonExpression(e Expression) JsonExpression {
	switch e.Type() {
	case Var:
		attrs := Attr[VarAttributes](e)
		id := attrs.ID
		//
		return JsonExpression{
			Op: "var", ID: &id, Name: attrs.Name,
			Rows: attrs.Size.Rows, Cols: attrs.Size.Cols,
		}
	case Const:
		attrs := Attr[ConstAttributes](e)
		size := attrs.Size()
		data := make([][]float64, size.Rows)
		//
		for i := range size.Rows {
			data[i] = make([]float64, size.Cols)
			for j := range size.Cols {
				data[i][j] = attrs.Data.At(i, j)
			}
		}
		//
		return JsonExpression{Op: "const", Data: data}
	}
	//
	args := make([]JsonExpression, e.NumArgs())
	for i, arg := range e.Args() {
		args[i] = ToJsonExpression(arg)
	}
	//
	je := JsonExpression{Op: jsonOpNames[e.Type()], Args: args}
	//
	switch e.Type() {
	case Index:
		keys := Attr[IndexAttributes](e).Keys
		je.Keys = []JsonSlice{
			{keys[0].Start, keys[0].Stop, keys[0].Step},
			{keys[1].Start, keys[1].Stop, keys[1].Step},
		}
	case PNorm:
		p := Attr[PNormAttributes](e).P
		je.P = &p
	case Reshape:
		size := Attr[ReshapeAttributes](e).Size
		je.Rows, je.Cols = size.Rows, size.Cols
	}
	//
	return je
}
