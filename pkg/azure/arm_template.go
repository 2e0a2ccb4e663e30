// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"encoding/json"
	"strings"
)

// RawArmTemplate is a JSON encoded ARM template.
type RawArmTemplate = json.RawMessage

const (
	// TemplateSchema is the schema for resource group scoped deployment templates.
	TemplateSchema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#"
	// TemplateContentVersion is the content version stamped on every generated template.
	TemplateContentVersion = "1.0.0.0"
)

// ArmTemplate is the serializable form of an Azure Resource Manager
// deployment template. It follows the structure outlined at
// https://learn.microsoft.com/azure/azure-resource-manager/templates/syntax.
type ArmTemplate struct {
	Schema         string                          `json:"$schema"`
	ContentVersion string                          `json:"contentVersion"`
	Parameters     ArmTemplateParameterDefinitions `json:"parameters"`
	Resources      []any                           `json:"resources"`
	Outputs        ArmTemplateOutputs              `json:"outputs"`
}

type ArmTemplateParameterDefinitions map[string]ArmTemplateParameterDefinition

type ArmTemplateOutputs map[string]ArmTemplateOutput

type ArmTemplateParameterDefinition struct {
	Type         string `json:"type"`
	DefaultValue any    `json:"defaultValue,omitempty"`
	MinLength    *int   `json:"minLength,omitempty"`
	MaxLength    *int   `json:"maxLength,omitempty"`
}

// Secure reports whether values supplied for the parameter must be kept out
// of logs and deployment history. ARM treats the type name case-insensitively.
func (d *ArmTemplateParameterDefinition) Secure() bool {
	return strings.EqualFold(d.Type, "secureObject") || strings.EqualFold(d.Type, "secureString")
}

type ArmTemplateOutput struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// ResourceRecord is the common declaration envelope shared by every resource
// emitted into a template: identity fields plus the kind-specific payload.
// Optional fields marshal as omitted when unset, never as null.
type ResourceRecord struct {
	Type       string            `json:"type"`
	APIVersion string            `json:"apiVersion"`
	Name       string            `json:"name"`
	Location   string            `json:"location,omitempty"`
	DependsOn  []string          `json:"dependsOn,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
	Kind       string            `json:"kind,omitempty"`
	Sku        *Sku              `json:"sku,omitempty"`
	Properties any               `json:"properties,omitempty"`
}

// Sku is the sku stanza carried by resource kinds that are billed by tier.
type Sku struct {
	Name string `json:"name"`
	Tier string `json:"tier,omitempty"`
}
