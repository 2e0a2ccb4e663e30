// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"encoding/json"
	"fmt"
)

// ParameterFileSchema is the schema for resource group scoped deployment
// parameter files.
const ParameterFileSchema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#"

// ArmParameters is a map of arm template parameters to their configured values.
type ArmParameters map[string]ArmParameter

// ArmParameterFile is the model type for a `.parameters.json` file. It fits the schema outlined here:
// https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json
type ArmParameterFile struct {
	Schema         string        `json:"$schema"`
	ContentVersion string        `json:"contentVersion"`
	Parameters     ArmParameters `json:"parameters"`
}

// ArmParameter wraps the configured value for the parameter.
type ArmParameter struct {
	Value any `json:"value"`
}

// NewArmParameterFile wraps configured values in the `.parameters.json`
// envelope for writing alongside a generated template.
func NewArmParameterFile(parameters ArmParameters) ArmParameterFile {
	return ArmParameterFile{
		Schema:         ParameterFileSchema,
		ContentVersion: TemplateContentVersion,
		Parameters:     parameters,
	}
}

// ParseArmParameterFile decodes a `.parameters.json` document into the
// configured parameter values.
func ParseArmParameterFile(data []byte) (ArmParameters, error) {
	var file ArmParameterFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing parameters file: %w", err)
	}

	return file.Parameters, nil
}
