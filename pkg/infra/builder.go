// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package infra contains the resource composition engine: the builder
// contract implemented by every resource-kind module, the reference
// resolution policy deciding which related resources are deployed and
// depended upon, secure parameter capture, and the fold that assembles many
// builders' output into a single deployable template.
package infra

import (
	"context"

	"github.com/raymens/farmer/pkg/azure"
)

// ArmResource is a fully-resolved resource ready for serialization. The
// JSON model must already have every deferred expression in evaluated string
// form; nothing mutates a resource after its builder returns it.
type ArmResource interface {
	ResourceName() azure.ResourceName
	// JSONModel returns the serialization-ready declaration for this resource.
	JSONModel() any
}

// Builder is the sole contract the composition engine depends on. Resource
// kind modules implement it; the engine never sees a concrete kind.
type Builder interface {
	// BuildResources emits the resource declarations for this builder at the
	// given location. A configuration error aborts the whole template build.
	BuildResources(location azure.Location) ([]ArmResource, error)
	// DependencyName is the name other builders should reference when
	// declaring a dependency on this builder's primary resource.
	DependencyName() azure.ResourceName
}

// Parameters is the capability interface for builders or resources that
// require secret values supplied at deploy time. Duplicates are allowed
// here; template assembly deduplicates by parameter name.
type Parameters interface {
	SecureParameters() []SecureParameter
}

// PostDeployTask runs after a deployment has succeeded. An empty message
// with a nil error means the task had nothing to do for this configuration.
// A non-nil error is a user-visible warning, never a deployment failure:
// the deployment is already committed by the time tasks run.
type PostDeployTask interface {
	Run(ctx context.Context, resourceGroupName string) (string, error)
}
