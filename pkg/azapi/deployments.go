// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package azapi executes assembled deployments against Azure Resource
// Manager. The composition engine in pkg/infra is pure; everything that
// talks to the network lives here.
package azapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/raymens/farmer/pkg/azure"
	"github.com/raymens/farmer/pkg/infra"
)

// cArmDeploymentNameLengthMax is the maximum length of the name of a deployment in ARM.
const cArmDeploymentNameLengthMax = 64

var ErrDeploymentNotFound = errors.New("deployment not found")

// Deployments deploys assembled templates through the resources SDK.
type Deployments struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
	clock            clock.Clock
}

func NewDeployments(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
	clock clock.Clock,
) *Deployments {
	return &Deployments{
		credential:       credential,
		armClientOptions: armClientOptions,
		clock:            clock,
	}
}

// NewDefaultDeployments wires the default credential chain, which covers the
// CLI, environment and managed identity cases.
func NewDefaultDeployments() (*Deployments, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating default credential: %w", err)
	}

	return NewDeployments(credential, nil, clock.New()), nil
}

// GenerateDeploymentName creates a name to use for the deployment object. It appends the current
// unix time to the base name (separated by a hyphen) to provide a unique name for each deployment. If the resulting
// name is longer than the ARM limit, the longest suffix of the name under the limit is returned.
func (ds *Deployments) GenerateDeploymentName(baseName string) string {
	name := fmt.Sprintf("%s-%d", baseName, ds.clock.Now().Unix())
	if len(name) <= cArmDeploymentNameLengthMax {
		return name
	}

	return name[len(name)-cArmDeploymentNameLengthMax:]
}

// DeployToResourceGroup submits the deployment's template to the given
// resource group in incremental mode and blocks until it completes. The
// parameters map supplies values for the template's secure parameters.
func (ds *Deployments) DeployToResourceGroup(
	ctx context.Context,
	subscriptionId string,
	resourceGroup string,
	deploymentName string,
	deployment *infra.Deployment,
	parameters azure.ArmParameters,
) (*armresources.DeploymentExtended, error) {
	rawTemplate, err := deployment.RawTemplate()
	if err != nil {
		return nil, err
	}

	if err := validateParameters(rawTemplate, parameters); err != nil {
		return nil, fmt.Errorf("validating parameters: %w", err)
	}

	deploymentClient, err := ds.createDeploymentsClient(subscriptionId)
	if err != nil {
		return nil, fmt.Errorf("creating deployments client: %w", err)
	}

	armParameters := map[string]any{}
	for name, parameter := range parameters {
		armParameters[name] = map[string]any{"value": parameter.Value}
	}

	createFromTemplateOperation, err := deploymentClient.BeginCreateOrUpdate(
		ctx, resourceGroup, deploymentName,
		armresources.Deployment{
			Properties: &armresources.DeploymentProperties{
				Template:   rawTemplate,
				Parameters: armParameters,
				Mode:       to.Ptr(armresources.DeploymentModeIncremental),
			},
			Tags: map[string]*string{
				azure.TagKeyDeploymentId:   to.Ptr(uuid.NewString()),
				azure.TagKeyTemplateSource: to.Ptr("true"),
			},
		}, nil)
	if err != nil {
		return nil, fmt.Errorf("starting deployment to resource group: %w", err)
	}

	// wait for deployment creation
	deployResult, err := createFromTemplateOperation.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("deploying to resource group: %w", createDeploymentError(err))
	}

	return &deployResult.DeploymentExtended, nil
}

// DeployToResourceGroupWithParameterFile is DeployToResourceGroup with the
// parameter values read from a `.parameters.json` document.
func (ds *Deployments) DeployToResourceGroupWithParameterFile(
	ctx context.Context,
	subscriptionId string,
	resourceGroup string,
	deploymentName string,
	deployment *infra.Deployment,
	parameterFile []byte,
) (*armresources.DeploymentExtended, error) {
	parameters, err := azure.ParseArmParameterFile(parameterFile)
	if err != nil {
		return nil, err
	}

	return ds.DeployToResourceGroup(ctx, subscriptionId, resourceGroup, deploymentName, deployment, parameters)
}

// validateParameters checks supplied values against the template's parameter
// definitions before submission, so obvious mistakes fail locally instead of
// in ARM preflight.
func validateParameters(rawTemplate azure.RawArmTemplate, parameters azure.ArmParameters) error {
	var template struct {
		Parameters azure.ArmTemplateParameterDefinitions `json:"parameters"`
	}
	if err := json.Unmarshal(rawTemplate, &template); err != nil {
		return fmt.Errorf("parsing template parameters: %w", err)
	}

	var err error
	for name, definition := range template.Parameters {
		parameter, supplied := parameters[name]
		if !supplied {
			if definition.DefaultValue == nil {
				err = multierr.Append(err, fmt.Errorf("no value for required parameter %q", name))
			}
			continue
		}

		if value, isString := parameter.Value.(string); isString {
			if definition.Secure() && value == "" {
				err = multierr.Append(err, fmt.Errorf("secure parameter %q must not be empty", name))
			}
			if definition.MinLength != nil && len(value) < *definition.MinLength {
				err = multierr.Append(err, fmt.Errorf(
					"parameter %q is shorter than %d characters", name, *definition.MinLength))
			}
			if definition.MaxLength != nil && len(value) > *definition.MaxLength {
				err = multierr.Append(err, fmt.Errorf(
					"parameter %q is longer than %d characters", name, *definition.MaxLength))
			}
		}
	}

	return err
}

// GetResourceGroupDeployment fetches the result of the most recent deployment with the given name.
func (ds *Deployments) GetResourceGroupDeployment(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
	deploymentName string,
) (*armresources.DeploymentExtended, error) {
	deploymentClient, err := ds.createDeploymentsClient(subscriptionId)
	if err != nil {
		return nil, fmt.Errorf("creating deployments client: %w", err)
	}

	deployment, err := deploymentClient.Get(ctx, resourceGroupName, deploymentName, nil)
	if err != nil {
		var errDetails *azcore.ResponseError
		if errors.As(err, &errDetails) && errDetails.StatusCode == 404 {
			return nil, ErrDeploymentNotFound
		}
		return nil, fmt.Errorf("getting deployment from resource group: %w", err)
	}

	return &deployment.DeploymentExtended, nil
}

// GetDeploymentByRID fetches a deployment from its full resource id, e.g. the
// ID field of a DeploymentExtended returned by an earlier call.
func (ds *Deployments) GetDeploymentByRID(ctx context.Context, rid string) (*armresources.DeploymentExtended, error) {
	subscriptionId, resourceGroupName, deploymentName, err := parseDeploymentRID(rid)
	if err != nil {
		return nil, err
	}

	return ds.GetResourceGroupDeployment(ctx, subscriptionId, resourceGroupName, deploymentName)
}

func parseDeploymentRID(rid string) (subscriptionId, resourceGroupName, deploymentName string, err error) {
	if !strings.Contains(rid, "/subscriptions/") {
		return "", "", "", fmt.Errorf("no subscription in deployment id %q", rid)
	}

	group := azure.GetResourceGroupName(rid)
	if group == nil {
		return "", "", "", fmt.Errorf("no resource group in deployment id %q", rid)
	}

	parts := strings.Split(rid, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return "", "", "", fmt.Errorf("no deployment name in deployment id %q", rid)
	}

	return azure.SubscriptionFromRID(rid), *group, name, nil
}

// DeploymentUrl returns the canonical resource id of a resource group scoped deployment.
func (ds *Deployments) DeploymentUrl(subscriptionId, resourceGroupName, deploymentName string) string {
	return azure.ResourceGroupDeploymentRID(subscriptionId, resourceGroupName, deploymentName)
}

func (ds *Deployments) createDeploymentsClient(subscriptionId string) (*armresources.DeploymentsClient, error) {
	client, err := armresources.NewDeploymentsClient(subscriptionId, ds.credential, ds.armClientOptions)
	if err != nil {
		return nil, err
	}

	return client, nil
}
