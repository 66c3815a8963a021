//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

// This file hosts non-user-configurable parameters -- these are for development and testing
// purposes only.

// ContradictionSweepLimit bounds the setter's contradiction-removal sweep (§4.4): the number of
// passes over a token's value list looking for a shrink-or-erase opportunity before giving up.
// valueflow/setter.maxContradictionPasses is the authoritative copy this mirrors for documentation
// purposes; the two are kept in sync by hand since the setter package must not import config (it
// sits below config in the dependency order).
const ContradictionSweepLimit = 4

// DirLevelsToPrintForTriggers is the number of enclosing directories a truncated location of a
// bailout or internal error would keep. No code in this module reads it.
const DirLevelsToPrintForTriggers = 1

const uberPkgPathPrefix = "go.uber.org"

// C2GoFlowPkgPathPrefix is this module's own package prefix, the counterpart of the teacher's
// NilAwayPkgPathPrefix. No code in this module reads it.
const C2GoFlowPkgPathPrefix = uberPkgPathPrefix + "/c2goflow"
