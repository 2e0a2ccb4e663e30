// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/raymens/farmer/pkg/convert"
)

// SubscriptionFromRID returns the subscription id component of a resource or panics if the resource id does not
// contain a subscription.
func SubscriptionFromRID(rid string) string {
	parts := strings.Split(rid, "/")
	for idx, part := range parts {
		if part == "subscriptions" && idx+1 < len(parts) {
			return parts[idx+1]
		}
	}

	panic(fmt.Sprintf("no subscription id component in %s", rid))
}

// Creates Azure subscription resource ID
func SubscriptionRID(subscriptionId string) string {
	return fmt.Sprintf("/subscriptions/%s", subscriptionId)
}

// Creates resource ID for an Azure resource group
func ResourceGroupRID(subscriptionId, resourceGroupName string) string {
	return fmt.Sprintf("%s/resourceGroups/%s", SubscriptionRID(subscriptionId), resourceGroupName)
}

// Creates resource group level deployment resource ID
func ResourceGroupDeploymentRID(subscriptionId string, resourceGroupName string, deploymentId string) string {
	return fmt.Sprintf(
		"%s/providers/Microsoft.Resources/deployments/%s",
		ResourceGroupRID(subscriptionId, resourceGroupName),
		deploymentId,
	)
}

var resourceIdRegex = regexp.MustCompile("/.+/(?i)resourceGroups/(.+?)/.+")

// Find the resource group name from the resource id
func GetResourceGroupName(resourceId string) *string {
	matches := resourceIdRegex.FindSubmatch([]byte(resourceId))
	if matches == nil || len(matches) < 2 {
		return nil
	}

	return convert.RefOf(string(matches[1]))
}
