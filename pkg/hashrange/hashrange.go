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

// Package hashrange normalizes the commit range of a build.
//
// Git reports the "from" commit of a push that creates a branch as a hash of
// all zeros. Resolve turns that into NoPriorCommit so the sync compares
// against nothing instead of a commit that does not exist.
package hashrange

import (
	"strings"
)

// NoPriorCommitSentinel is the value the ISPW CLI expects as from hash
// when there is no prior commit.
const NoPriorCommitSentinel = "-2"

// Hash is an optional commit hash. The zero value is absent.
type Hash struct {
	value   string
	present bool
}

// Some returns a present hash. The value is not validated.
func Some(v string) Hash {
	return Hash{value: v, present: true}
}

// None returns an absent hash.
func None() Hash {
	return Hash{}
}

// Value returns the hash and whether it is present.
func (h Hash) Value() (string, bool) {
	return h.value, h.present
}

// Present reports whether the hash was supplied.
func (h Hash) Present() bool {
	return h.present
}

// IsUnset reports whether h is present but made only of '0' characters.
// An empty string counts as unset.
func (h Hash) IsUnset() bool {
	return h.present && strings.ReplaceAll(h.value, "0", "") == ""
}

func (h Hash) String() string {
	if !h.present {
		return "<none>"
	}
	return h.value
}

// Pair is the commit range of a build as received from the environment.
type Pair struct {
	From Hash
	To   Hash
}

// From is the start of a resolved range: either a commit hash or the
// marker for a branch without a prior commit.
type From struct {
	hash    Hash
	noPrior bool
}

// Commit returns a From holding the hash.
func Commit(h Hash) From {
	return From{hash: h}
}

// NoPriorCommit returns a From for the first build of a branch.
func NoPriorCommit() From {
	return From{noPrior: true}
}

// IsNoPriorCommit reports whether f marks the first build of a branch.
func (f From) IsNoPriorCommit() bool {
	return f.noPrior
}

// Hash returns the commit hash. It is absent for NoPriorCommit.
func (f From) Hash() Hash {
	return f.hash
}

// Encode returns the value handed to the ISPW CLI, and false if there is
// nothing to hand over.
func (f From) Encode() (string, bool) {
	if f.noPrior {
		return NoPriorCommitSentinel, true
	}
	return f.hash.Value()
}

func (f From) String() string {
	if f.noPrior {
		return "<no prior commit>"
	}
	return f.hash.String()
}

// Range is a resolved commit range.
type Range struct {
	From From
	To   Hash
}

// Resolve normalizes p. When the from hash is unset and the to hash is
// present and set, the range starts at NoPriorCommit. Every other
// combination is passed through unchanged.
func Resolve(p Pair) Range {
	if p.From.IsUnset() && p.To.Present() && !p.To.IsUnset() {
		return Range{From: NoPriorCommit(), To: p.To}
	}
	return Range{From: Commit(p.From), To: p.To}
}
