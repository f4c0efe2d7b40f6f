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
	"strings"
)

// String produces an s-expression rendering of this expression.
func (e Expression) String() string {
	switch e.Type() {
	case Const:
		attrs := Attr[ConstAttributes](e)
		if attrs.Size().Dim() == 1 {
			return fmt.Sprintf("%v", attrs.Data.At(0, 0))
		}
		//
		return fmt.Sprintf("[%s const]", attrs.Size())
	case Var:
		attrs := Attr[VarAttributes](e)
		if attrs.Name != "" {
			return attrs.Name
		}
		//
		return fmt.Sprintf("v%d", attrs.ID)
	case Index:
		keys := Attr[IndexAttributes](e).Keys
		return fmt.Sprintf("(index %s %s %s)", e.Arg(0), sliceString(keys[0]), sliceString(keys[1]))
	case PNorm:
		return fmt.Sprintf("(p_norm[%v] %s)", Attr[PNormAttributes](e).P, e.Arg(0))
	case Reshape:
		return fmt.Sprintf("(reshape[%s] %s)", Attr[ReshapeAttributes](e).Size, e.Arg(0))
	}
	//
	return naryString(e.Type().String(), e.Args())
}

func naryString(operator string, args []Expression) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(operator)
	//
	for _, arg := range args {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func sliceString(s Slice) string {
	return fmt.Sprintf("%d:%d:%d", s.Start, s.Stop, s.Step)
}
