// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cosmosdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raymens/farmer/pkg/azure"
	"github.com/raymens/farmer/pkg/infra"
)

func Test_DatabaseBuilder_BuildResources(t *testing.T) {
	builder := NewDatabaseBuilder("orders")
	builder.Config.Containers = []ContainerConfig{
		{Name: azure.NewResourceName("by-customer"), PartitionKey: "/customerId"},
	}

	resources, err := builder.BuildResources(azure.LocationNorthEurope)
	require.NoError(t, err)
	require.Len(t, resources, 3)

	account := resources[0].JSONModel().(azure.ResourceRecord)
	require.Equal(t, "Microsoft.DocumentDB/databaseAccounts", account.Type)
	require.Equal(t, "orders-account", account.Name)
	require.Equal(t, "northeurope", account.Location)

	database := resources[1].JSONModel().(azure.ResourceRecord)
	require.Equal(t, "orders-account/orders", database.Name)
	require.Equal(t,
		[]string{"[resourceId('Microsoft.DocumentDB/databaseAccounts', 'orders-account')]"},
		database.DependsOn)

	container := resources[2].JSONModel().(azure.ResourceRecord)
	require.Equal(t, "orders-account/orders/by-customer", container.Name)
	require.Equal(t,
		[]string{
			"[resourceId('Microsoft.DocumentDB/databaseAccounts/sqlDatabases', 'orders-account/orders')]",
		},
		container.DependsOn)
}

func Test_DatabaseBuilder_LinkedAccount(t *testing.T) {
	// a second database linking to the account derived from the FIRST
	// database's config: the ref must resolve against the consuming config
	// it is given, not the one that owns it
	first := NewDatabaseBuilder("orders")
	second := &DatabaseBuilder{Config: DatabaseConfig{
		Name:    azure.NewResourceName("invoices"),
		Account: infra.ExternalManaged[DatabaseConfig](first.Config.Account.CreateResourceName(first.Config)),
	}}

	resources, err := second.BuildResources(azure.LocationNorthEurope)
	require.NoError(t, err)

	// managed external account: no account declaration, dependency kept
	require.Len(t, resources, 1)
	database := resources[0].JSONModel().(azure.ResourceRecord)
	require.Equal(t, "orders-account/invoices", database.Name)
	require.Equal(t,
		[]string{"[resourceId('Microsoft.DocumentDB/databaseAccounts', 'orders-account')]"},
		database.DependsOn)
}

func Test_DatabaseBuilder_Validation(t *testing.T) {
	t.Run("MissingPartitionKey", func(t *testing.T) {
		builder := NewDatabaseBuilder("orders")
		builder.Config.Containers = []ContainerConfig{
			{Name: azure.NewResourceName("by-customer")},
		}

		_, err := builder.BuildResources(azure.LocationNorthEurope)
		require.ErrorContains(t, err, "requires a partition key")
	})

	t.Run("MissingName", func(t *testing.T) {
		builder := &DatabaseBuilder{}
		_, err := builder.BuildResources(azure.LocationNorthEurope)
		require.ErrorContains(t, err, "requires a name")
	})
}

func Test_DatabaseBuilder_PrimaryKey(t *testing.T) {
	builder := NewDatabaseBuilder("orders")

	secret := builder.PrimaryKey()
	require.Equal(t,
		"[listKeys(resourceId('Microsoft.DocumentDB/databaseAccounts', 'orders-account'), "+
			"'2021-04-15').primaryMasterKey]",
		secret.ArmValue())
}
