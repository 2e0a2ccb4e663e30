// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package infra

import (
	"fmt"

	"github.com/raymens/farmer/pkg/azure"
)

// Compile folds the output of every builder into a single Deployment. It is
// a pure, order-preserving transformation: resources appear in builder
// invocation order, secure parameters reported by builders or their
// resources are deduplicated by name in first-seen order, and post-deploy
// tasks are collected in the same order. Any builder error aborts the whole
// build; a partial template is never produced.
func Compile(location azure.Location, builders []Builder, outputs []Output) (*Deployment, error) {
	template := &ArmTemplate{
		Outputs: outputs,
	}

	var tasks []PostDeployTask
	seenParameters := map[string]bool{}

	collectParameters := func(source any) {
		withParameters, ok := source.(Parameters)
		if !ok {
			return
		}

		for _, parameter := range withParameters.SecureParameters() {
			if seenParameters[parameter.Name] {
				continue
			}
			seenParameters[parameter.Name] = true
			template.Parameters = append(template.Parameters, parameter)
		}
	}

	for _, builder := range builders {
		resources, err := builder.BuildResources(location)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", builder.DependencyName(), err)
		}

		collectParameters(builder)
		if task, ok := builder.(PostDeployTask); ok {
			tasks = append(tasks, task)
		}

		for _, resource := range resources {
			template.Resources = append(template.Resources, resource)
			collectParameters(resource)
			if task, ok := resource.(PostDeployTask); ok {
				tasks = append(tasks, task)
			}
		}
	}

	return &Deployment{
		Location:        location,
		Template:        template,
		PostDeployTasks: tasks,
	}, nil
}
