// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package infra

import (
	"sort"

	"github.com/raymens/farmer/pkg/azure"
)

// SecureParameter is a named deploy-time secret parameter. Builders may
// report the same parameter name more than once; assembly collapses
// duplicates into a single declared parameter.
type SecureParameter struct {
	Name string
}

func NewSecureParameter(name string) SecureParameter {
	return SecureParameter{Name: name}
}

// AsArmRef is the expression reading this parameter's deploy-time value.
func (p SecureParameter) AsArmRef() azure.Expression {
	expr, _ := azure.NewExpression("parameters('" + p.Name + "')")
	return expr
}

// ArmValue is the evaluated template string for this parameter reference.
func (p SecureParameter) ArmValue() string {
	return p.AsArmRef().Eval()
}

// Definition is the parameter declaration emitted into the template.
func (p SecureParameter) Definition() azure.ArmTemplateParameterDefinition {
	return azure.ArmTemplateParameterDefinition{Type: "securestring"}
}

// Setting is a configuration value that may be a compile-time literal, a
// secure deploy-time parameter, or an arbitrary expression. ArmValue renders
// all three to an ARM-compatible string; consumers never see which variant
// produced the value. The sum is sealed: adding a variant without handling
// it everywhere is a compile error.
type Setting interface {
	ArmValue() string
	isSetting()
}

// SecretValue carries the same three variants as Setting but marks values
// that must be treated as secrets, e.g. account keys and connection strings.
type SecretValue interface {
	ArmValue() string
	isSecretValue()
}

// LiteralValue is a compile-time literal, emitted verbatim.
type LiteralValue string

func (v LiteralValue) ArmValue() string { return string(v) }
func (v LiteralValue) isSetting()       {}
func (v LiteralValue) isSecretValue()   {}

// ParameterValue reads a secure parameter at deploy time.
type ParameterValue struct {
	Parameter SecureParameter
}

func (v ParameterValue) ArmValue() string { return v.Parameter.ArmValue() }
func (v ParameterValue) isSetting()       {}
func (v ParameterValue) isSecretValue()   {}

// ExpressionValue defers to an arbitrary template expression.
type ExpressionValue struct {
	Expression azure.Expression
}

func (v ExpressionValue) ArmValue() string { return v.Expression.Eval() }
func (v ExpressionValue) isSetting()       {}
func (v ExpressionValue) isSecretValue()   {}

// SettingDependencies collects the dependsOn entries implied by owned
// expression-valued settings, deduplicated, in setting-name order. A builder
// that embeds such settings in a resource appends these so ARM deploys the
// owning resources first.
func SettingDependencies(settings map[string]Setting) []string {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	var dependsOn []string
	seen := map[string]bool{}
	for _, name := range names {
		value, ok := settings[name].(ExpressionValue)
		if !ok {
			continue
		}
		rid, ok := value.Expression.OwnerResourceID()
		if !ok {
			continue
		}
		entry := rid.Eval()
		if seen[entry] {
			continue
		}
		seen[entry] = true
		dependsOn = append(dependsOn, entry)
	}

	return dependsOn
}
