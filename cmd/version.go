// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"

	"github.com/market-vault/mvdata/pkginfo"
	"github.com/spf13/cobra"
)

var versionDeps bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(pkginfo.BuildVersionString())

		if versionDeps {
			fmt.Println("\nDependencies:")
			for _, dep := range pkginfo.GetDependencyList() {
				fmt.Printf("  %s\n", dep)
			}
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionDeps, "deps", false, "list linked dependencies")
	rootCmd.AddCommand(versionCmd)
}
