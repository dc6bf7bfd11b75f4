// Copyright 2021 Google LLC
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

package resolver

import (
	"fmt"
	"strings"

	"github.com/kptdev/git2ispw/internal/errors"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&validationErrorResolver{})
}

// validationErrorResolver is an implementation of the ErrorResolver interface
// to resolve settings validation errors.
type validationErrorResolver struct{}

func (*validationErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var validationErr *errors.ValidationError
	if !errors.As(err, &validationErr) {
		return ResolvedResult{}, false
	}
	var b strings.Builder
	b.WriteString("Error: The build step settings are not valid:")
	for _, v := range validationErr.Violations {
		fmt.Fprintf(&b, "\n  %s (%s", v.Field, v.Type)
		if v.Value != "" {
			fmt.Fprintf(&b, " %q", v.Value)
		}
		fmt.Fprintf(&b, "): %s", v.Reason)
	}
	return ResolvedResult{
		Message: b.String(),
	}, true
}
