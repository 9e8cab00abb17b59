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

package types

import "fmt"

// Hypothetical stands in for a type that depends on a template parameter and
// cannot be resolved until the owning template is instantiated with
// concrete arguments: e.g. `T::value_type` inside a template body, where T
// is a type parameter.
//
// A member access on a hypothetical (`h::id`) produces another
// hypothetical, owned by the same enclosing scope, whose Expr composes the
// parent's: this is what MemberAccess below models, rather than resolving
// the access immediately.
type Hypothetical struct {
	// Owner is the template whose future instantiation will resolve this
	// hypothetical; it is appended to Owner.Dependents when created.
	Owner *Template

	// Scope is the enclosing scope this hypothetical's placeholder
	// definition lives in.
	Scope *Scope

	// Expr is the dependent expression this hypothetical stands for, e.g.
	// a ParamRef{Param: "T"} for a bare template parameter reference, or a
	// MemberAccess for `T::value_type`.
	Expr HypotheticalExpr
}

// Name renders the hypothetical's placeholder identifier in the
// "(?=<expr>)" convention used to print an unresolved dependent type.
func (h *Hypothetical) Name() string {
	return fmt.Sprintf("(?=%s)", h.Expr.String())
}

// HypotheticalExpr is the small expression language a Hypothetical's Expr
// field holds: either a bare reference to a template parameter, or a
// member-access chain rooted at one.
type HypotheticalExpr interface {
	fmt.Stringer
	isHypotheticalExpr()
}

// ParamRef is a bare reference to a template parameter by name — the base
// case, e.g. the type parameter T itself.
type ParamRef struct {
	Param string
}

func (ParamRef) isHypotheticalExpr() {}
func (r ParamRef) String() string    { return r.Param }

// MemberAccess is `Base::Member` where Base is itself dependent: an AST
// node carrying the hypothetical and the member name, producing another
// hypothetical owned by the parent scope.
type MemberAccess struct {
	Base   HypotheticalExpr
	Member string
}

func (MemberAccess) isHypotheticalExpr() {}
func (m MemberAccess) String() string    { return m.Base.String() + "::" + m.Member }

// NewHypothetical creates a hypothetical for expr within scope, owned by
// owner, and registers it as a dependent so a future instantiation of owner
// can re-resolve it.
func NewHypothetical(owner *Template, scope *Scope, expr HypotheticalExpr) *Hypothetical {
	h := &Hypothetical{Owner: owner, Scope: scope, Expr: expr}
	owner.Dependents = append(owner.Dependents, h)
	return h
}

// AccessMember builds the hypothetical for h.Expr::member, owned by the
// same template and scope as h.
func (h *Hypothetical) AccessMember(member string) *Hypothetical {
	return NewHypothetical(h.Owner, h.Scope, MemberAccess{Base: h.Expr, Member: member})
}
