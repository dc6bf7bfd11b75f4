// Copyright 2026 The kpt Authors
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

package branchmap

import (
	"k8s.io/klog/v2"
)

// Matcher resolves branch identifiers against a Table. The first entry, in
// declaration order, whose pattern matches the branch wins; later entries
// are never consulted even if they are more specific.
//
// A Matcher holds no per-call state and may be used concurrently.
type Matcher struct {
	table *Table
}

// NewMatcher returns a Matcher for the table.
func NewMatcher(t *Table) *Matcher {
	return &Matcher{table: t}
}

// Evaluation is the outcome of testing one entry against a branch.
type Evaluation struct {
	Entry   Entry
	Matched bool
	// Selected is true for the entry that wins. At most one evaluation is
	// selected.
	Selected bool
}

// Match returns the RefMap of the first entry matching branch. The branch
// is normalized with NormalizeBranch first. A blank branch yields a
// *ResolutionError and no match yields a *NoMatchError.
func (m *Matcher) Match(branch string) (RefMap, error) {
	b, err := m.normalize(branch)
	if err != nil {
		return RefMap{}, err
	}
	for _, e := range m.table.entries {
		if e.Pattern.Match(b) {
			klog.V(4).Infof("branch %q matched pattern %q (record %d) -> %s",
				b, e.Pattern, e.Position, e.RefMap)
			return e.RefMap, nil
		}
		klog.V(5).Infof("branch %q did not match pattern %q", b, e.Pattern)
	}
	return RefMap{}, &NoMatchError{Branch: b, Evaluated: m.table.Len()}
}

// Explain tests branch against every entry and reports each outcome. The
// error behavior is the same as Match; on a *NoMatchError the evaluations
// are still returned.
func (m *Matcher) Explain(branch string) ([]Evaluation, error) {
	b, err := m.normalize(branch)
	if err != nil {
		return nil, err
	}
	evals := make([]Evaluation, 0, m.table.Len())
	selected := false
	for _, e := range m.table.entries {
		ev := Evaluation{Entry: e, Matched: e.Pattern.Match(b)}
		if ev.Matched && !selected {
			ev.Selected = true
			selected = true
		}
		evals = append(evals, ev)
	}
	if !selected {
		return evals, &NoMatchError{Branch: b, Evaluated: m.table.Len()}
	}
	return evals, nil
}

func (m *Matcher) normalize(branch string) (string, error) {
	b := NormalizeBranch(branch)
	if b == "" {
		return "", &ResolutionError{Reason: "missing branch identifier"}
	}
	return b, nil
}
