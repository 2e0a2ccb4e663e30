// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package infra

import (
	"encoding/json"
	"fmt"

	"github.com/raymens/farmer/pkg/azure"
)

// Output is a named template output whose value is resolved at deploy time.
type Output struct {
	Name  string
	Value azure.Expression
}

// ArmTemplate is the deployable unit assembled from builder output. Once
// assembled the template exclusively owns its lists: resources keep builder
// invocation order (dependency correctness comes from per-resource dependsOn
// edges, not array order), parameters are deduplicated by name, and outputs
// keep the order the caller supplied them in.
type ArmTemplate struct {
	Parameters []SecureParameter
	Outputs    []Output
	Resources  []ArmResource
}

// JSONModel returns the serializable template tree.
func (t *ArmTemplate) JSONModel() azure.ArmTemplate {
	parameters := azure.ArmTemplateParameterDefinitions{}
	for _, parameter := range t.Parameters {
		parameters[parameter.Name] = parameter.Definition()
	}

	resources := make([]any, len(t.Resources))
	for i, resource := range t.Resources {
		resources[i] = resource.JSONModel()
	}

	outputs := azure.ArmTemplateOutputs{}
	for _, output := range t.Outputs {
		outputs[output.Name] = azure.ArmTemplateOutput{
			Type:  "string",
			Value: output.Value.Eval(),
		}
	}

	return azure.ArmTemplate{
		Schema:         azure.TemplateSchema,
		ContentVersion: azure.TemplateContentVersion,
		Parameters:     parameters,
		Resources:      resources,
		Outputs:        outputs,
	}
}

// Deployment binds an assembled template to the location it deploys to and
// the tasks to run after the deployment succeeds.
type Deployment struct {
	Location        azure.Location
	Template        *ArmTemplate
	PostDeployTasks []PostDeployTask
}

// RawTemplate is the JSON encoding handed to the deployment service.
func (d *Deployment) RawTemplate() (azure.RawArmTemplate, error) {
	encoded, err := json.MarshalIndent(d.Template.JSONModel(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling template: %w", err)
	}

	return azure.RawArmTemplate(encoded), nil
}

// RawParameters encodes values for the template's parameters as a
// `.parameters.json` document, for writing next to the generated template.
func (d *Deployment) RawParameters(values azure.ArmParameters) ([]byte, error) {
	encoded, err := json.MarshalIndent(azure.NewArmParameterFile(values), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling parameters: %w", err)
	}

	return encoded, nil
}
