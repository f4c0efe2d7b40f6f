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

	"github.com/consensys/go-conic/pkg/expression"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or prints the error and exits if an error
// arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or prints the error and
// exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// readProblemFile parses a problem from a JSON problem file.
func readProblemFile(filename string) expression.Problem {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		var problem expression.Problem
		//
		problem, err = expression.ProblemFromJson(bytes)
		if err == nil {
			return problem
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return expression.Problem{}
}
