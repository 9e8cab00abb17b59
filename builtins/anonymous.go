// Copyright 2025 EngFlow Inc. All rights reserved.
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

package builtins

import (
	"fmt"
	"sync/atomic"
)

// AnonymousCounter names unnamed fields (an anonymous union/struct member
// with no declarator) with a sequence held by the counter instance rather
// than a package-level global, so a caller that wants independent numbering across
// parse runs (e.g. parallel test cases) can allocate its own counter
// instead of sharing one mutable global.
type AnonymousCounter struct {
	next atomic.Uint64
}

// NewAnonymousCounter returns a counter starting at zero.
func NewAnonymousCounter() *AnonymousCounter { return &AnonymousCounter{} }

// Next allocates and formats the next anonymous field name, using the
// `<anonymousField%010d>` convention.
func (c *AnonymousCounter) Next() string {
	n := c.next.Add(1) - 1
	return fmt.Sprintf("<anonymousField%010d>", n)
}
