// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/internal/errors/resolver"
	"github.com/kptdev/git2ispw/internal/util/cmdutil"
	"github.com/kptdev/git2ispw/pkg/printer"
	"github.com/kptdev/git2ispw/run"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	os.Exit(runMain())
}

// runMain does the initial setup in order to run git2ispw. The return value from
// this function will be the exit code of the process.
func runMain() int {
	ctx := context.Background()
	defer klog.Flush()

	cmd := run.GetMain(ctx)

	err := cmd.Execute()
	if err != nil {
		return handleErr(cmd, err)
	}
	return 0
}

// handleErr takes care of printing an error message for a given error.
func handleErr(cmd *cobra.Command, err error) int {
	pr := printer.FromContextOrDie(cmd.Context())

	if cmdutil.PrintErrorStacktrace() {
		if stack := cmdutil.Stack(err); stack != "" {
			fmt.Fprintf(pr.ErrStream(), "%s", stack)
		}
	}

	// First attempt to see if we can resolve the error into a specific
	// error message.
	if resolvedResult, found := resolver.ResolveError(err); found {
		pr.Printf("%s\n", resolvedResult.Message)
		return resolvedResult.ExitCode
	}

	// Then try to see if it is of type *errors.Error
	var e *errors.Error
	if errors.As(err, &e) {
		unwrapped, ok := errors.UnwrapErrors(e)
		if ok && !cmdutil.PrintErrorStacktrace() {
			pr.Printf("Error: %s\n", unwrapped.Error())
			return 1
		}
		pr.Printf("%s\n", e.Error())
		return 1
	}

	// Finally just print the error.
	pr.Printf("Error: %s\n", err.Error())
	return 1
}
