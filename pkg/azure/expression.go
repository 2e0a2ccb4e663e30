// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"fmt"
	"regexp"
	"strings"
)

// Expression is a deferred-evaluation ARM template expression. It holds the
// raw, un-bracketed expression text; Eval is the single place the "[...]"
// wrapping happens, which guarantees brackets are never doubled.
//
// An Expression may carry an owning ResourceName. The owner is metadata used
// for dependency attribution only and never changes the expression text.
// When the owner's resourceId is known it is carried alongside the name, so
// a resource that embeds the expression can emit the matching dependsOn edge.
type Expression struct {
	value string
	owner *ResourceName
	// ownerID is the raw resourceId text for owner, when known.
	ownerID string
}

var bracketedExpr = regexp.MustCompile(`^\[.*\]$`)

// NewExpression creates an expression from raw text. Passing text that is
// already bracket-wrapped is a caller bug, not a recoverable condition, so
// it is rejected at construction time rather than silently unwrapped.
func NewExpression(value string) (Expression, error) {
	if bracketedExpr.MatchString(value) {
		return Expression{}, fmt.Errorf(
			"expression %q is already wrapped in [ ]: pass the raw expression text", value)
	}

	return Expression{value: value}, nil
}

// rawExpression is for package-internal construction of text that is known
// not to be bracketed, e.g. the output of a format helper.
func rawExpression(value string) Expression {
	return Expression{value: value}
}

func (e Expression) Value() string {
	return e.value
}

// Owner returns the resource this expression's value depends on, or nil.
func (e Expression) Owner() *ResourceName {
	return e.owner
}

// OwnerResourceID returns the resourceId expression for the owner, when one
// is known. A resource embedding an owned expression appends its Eval() to
// dependsOn so ARM orders the owner first.
func (e Expression) OwnerResourceID() (Expression, bool) {
	if e.ownerID == "" {
		return Expression{}, false
	}

	return rawExpression(e.ownerID), true
}

// Eval wraps the raw text for emission into a template.
func (e Expression) Eval() string {
	return "[" + e.value + "]"
}

// Map transforms the raw text, preserving the owner tag.
func (e Expression) Map(f func(string) string) Expression {
	return Expression{value: f(e.value), owner: e.owner, ownerID: e.ownerID}
}

// WithOwner reassigns the owner tag without altering the text. Used when a
// generic expression built from a ResourceType must be attributed to a
// specific instance for dependency tracking. The owner's resourceId, when
// already known, is kept.
func (e Expression) WithOwner(name ResourceName) Expression {
	owner := name
	return Expression{value: e.value, owner: &owner, ownerID: e.ownerID}
}

// Literal quotes a string for embedding inside a function-call expression.
func Literal(value string) Expression {
	return rawExpression("'" + value + "'")
}

// Concat joins expressions inside a concat(...) call. When every owned part
// agrees on a single owner the result keeps that attribution; distinct owners
// make attribution ambiguous and none is kept.
func Concat(expressions ...Expression) Expression {
	parts := make([]string, len(expressions))
	var owned []Expression
	for i, expr := range expressions {
		parts[i] = expr.value
		if expr.owner != nil {
			owned = append(owned, expr)
		}
	}

	result := rawExpression(fmt.Sprintf("concat(%s)", strings.Join(parts, ", ")))
	for _, expr := range owned {
		if result.owner != nil && result.owner.Value() != expr.owner.Value() {
			return rawExpression(result.value)
		}
		result.owner, result.ownerID = expr.owner, expr.ownerID
	}

	return result
}

// ResourceID formats the resourceId(...) template function for a resource of
// the given type. Group and subscription select the 3- and 4-argument forms;
// a subscription is only meaningful together with a group and the 4-argument
// form is only produced when both are present.
//
// The in-group form owns itself: the named resource can live in the same
// template, so expressions derived from the id keep the attribution needed
// for dependsOn. The cross-group forms point outside the template, where no
// dependsOn edge is possible, and carry no owner.
func ResourceID(resourceType ResourceType, name ResourceName, group string, subscription string) Expression {
	switch {
	case group != "" && subscription != "":
		return rawExpression(fmt.Sprintf(
			"resourceId('%s', '%s', '%s', '%s')", subscription, group, resourceType.Type, name.Value()))
	case group != "":
		return rawExpression(fmt.Sprintf(
			"resourceId('%s', '%s', '%s')", group, resourceType.Type, name.Value()))
	default:
		owner := name
		rid := fmt.Sprintf("resourceId('%s', '%s')", resourceType.Type, name.Value())
		return Expression{value: rid, owner: &owner, ownerID: rid}
	}
}

// Reference formats the reference(...) template function for reading the
// runtime state of a deployed resource. The referenced resource's
// attribution carries over.
func Reference(resourceType ResourceType, resourceID Expression) Expression {
	return Expression{
		value:   fmt.Sprintf("reference(%s, '%s')", resourceID.value, resourceType.APIVersion),
		owner:   resourceID.owner,
		ownerID: resourceID.ownerID,
	}
}
