// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

const (
	// TagKeyDeploymentId is the name of the key in the tags map of a deployment
	// used to correlate the deployment object with the run that produced it.
	TagKeyDeploymentId = "farmer-deployment-id"
	// TagKeyTemplateSource is the name of the key in the tags map of a deployment
	// used to mark templates generated by this engine.
	TagKeyTemplateSource = "farmer-template"
)
