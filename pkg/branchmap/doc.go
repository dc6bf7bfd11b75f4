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

// Package branchmap resolves git branches to ISPW targets.
//
// A mapping is parsed into an ordered Table of (pattern, RefMap) entries
// with Parse, and a Matcher selects the RefMap of the first entry whose
// pattern matches a branch. Parsing and matching are pure; the package
// keeps no state between calls.
package branchmap
