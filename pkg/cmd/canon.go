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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-conic/pkg/canon"
	"github.com/consensys/go-conic/pkg/expression"
	"github.com/consensys/go-conic/pkg/linear"
	"github.com/consensys/go-conic/pkg/transform"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gonum.org/v1/gonum/mat"
)

var canonCmd = &cobra.Command{
	Use:   "canon [flags] problem_file",
	Short: "canonicalize a problem into conic form.",
	Long: `Lower a convex optimization problem, given as a JSON problem
	file, into the canonical conic form consumed by conic solvers, and
	print the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		coefficients := GetFlag(cmd, "coefficients")
		transformOnly := GetFlag(cmd, "transform")
		textWidth := int(GetUint(cmd, "textwidth"))
		// Fall back on the terminal width
		if textWidth == 0 {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				textWidth = w
			} else {
				textWidth = 80
			}
		}
		//
		problem := readProblemFile(args[0])
		//
		if transformOnly || coefficients {
			printTransformed(problem, coefficients)
			return
		}
		//
		form, err := canon.Canonicalize(problem)
		if err != nil {
			log.Fatal(err)
		}
		//
		printCanonicalForm(form, textWidth)
	},
}

func init() {
	rootCmd.AddCommand(canonCmd)
	canonCmd.Flags().Bool("coefficients", false, "Print per-variable coefficients of each affine expression")
	canonCmd.Flags().Bool("transform", false, "Stop after the cone transform and print the affine problem")
	canonCmd.Flags().Uint("textwidth", 0, "Set maximum textwidth to use (0 = terminal width)")
}

// printTransformed runs only the cone transform, printing the resulting
// affine problem and (optionally) the coefficient map of its objective and
// of every constraint.
func printTransformed(problem expression.Problem, coefficients bool) {
	transformed, err := transform.LinearConeTransform{}.Transform(problem)
	if err != nil {
		log.Fatal(err)
	}
	//
	fmt.Println(transformed)
	//
	if !coefficients {
		return
	}
	//
	for _, e := range append([]expression.Expression{transformed.Objective}, transformed.Constraints...) {
		coeffs, err := linear.Coefficients(residualOf(e))
		if err != nil {
			log.Fatal(err)
		}
		//
		fmt.Printf("%s: %s\n", e, coeffs)
	}
}

// residualOf maps a constraint onto the affine expression whose coefficients
// characterise it, and is the identity on anything else.
func residualOf(e expression.Expression) expression.Expression {
	switch e.Type() {
	case expression.Eq, expression.Leq:
		return expression.NewAdd(e.Arg(0), expression.NewNeg(e.Arg(1)))
	case expression.SOC:
		return expression.NewVStack(e.Arg(1), e.Arg(0))
	}
	//
	return e
}

// printCanonicalForm summarises a canonical form, materialising the system
// matrices whenever they fit within the given text width.
func printCanonicalForm(form *canon.CanonicalForm, textWidth int) {
	fmt.Printf("%s %d variables, %d rows, %d cones\n",
		form.Sense, form.NumVars(), form.A.Rows(), len(form.Cones))
	//
	for _, v := range form.Vars {
		fmt.Printf("var v%d %s at offset %d\n", v.ID, v.Size, v.Offset)
	}
	//
	for _, cone := range form.Cones {
		fmt.Printf("cone %s dim %d\n", cone.Type, cone.Dim)
	}
	// Eight columns of text per matrix column, as printed by gonum.
	if form.A.Cols()*8 > textWidth {
		fmt.Printf("A: %s (wider than textwidth)\n", form.A)
		return
	}
	//
	if c := form.C; c != nil {
		fmt.Printf("c: %v\n", mat.Formatted(c.T()))
	}
	//
	if a := form.A.ToDense(); a != nil {
		fmt.Printf("A:\n%v\n", mat.Formatted(a))
	}
	//
	if b := form.B; b != nil {
		fmt.Printf("b: %v\n", mat.Formatted(b.T()))
	}
}
