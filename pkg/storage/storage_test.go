// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raymens/farmer/pkg/azure"
	"github.com/raymens/farmer/pkg/infra"
)

func Test_AccountBuilder_BuildResources(t *testing.T) {
	builder := NewAccountBuilder("mystorage")

	resources, err := builder.BuildResources(azure.LocationWestEurope)
	require.NoError(t, err)
	require.Len(t, resources, 1)

	record := resources[0].JSONModel().(azure.ResourceRecord)
	require.Equal(t, "Microsoft.Storage/storageAccounts", record.Type)
	require.Equal(t, "mystorage", record.Name)
	require.Equal(t, "westeurope", record.Location)
	require.Equal(t, "StorageV2", record.Kind)
	require.Equal(t, string(SkuStandardLRS), record.Sku.Name)
}

func Test_AccountBuilder_Validation(t *testing.T) {
	t.Run("MissingName", func(t *testing.T) {
		builder := &AccountBuilder{}
		_, err := builder.BuildResources(azure.LocationWestEurope)
		require.ErrorContains(t, err, "requires a name")
	})

	t.Run("InvalidName", func(t *testing.T) {
		builder := NewAccountBuilder("Not-A-Valid-Name")
		_, err := builder.BuildResources(azure.LocationWestEurope)
		require.ErrorContains(t, err, "lower-case letters and digits")
	})
}

func Test_AccountBuilder_Key(t *testing.T) {
	builder := NewAccountBuilder("mystorage")

	key := builder.Key()
	require.Equal(t,
		"listKeys(resourceId('Microsoft.Storage/storageAccounts', 'mystorage'), '2022-09-01').keys[0].value",
		key.Value())
	require.Equal(t, "mystorage", key.Owner().Value())
}

func Test_AccountBuilder_ConnectionString(t *testing.T) {
	builder := NewAccountBuilder("mystorage")

	secret := builder.ConnectionString()
	require.Equal(t,
		"[concat('DefaultEndpointsProtocol=https;AccountName=mystorage;AccountKey=', "+
			"listKeys(resourceId('Microsoft.Storage/storageAccounts', 'mystorage'), '2022-09-01').keys[0].value)]",
		secret.ArmValue())

	// embedding the string in another resource must order the account first
	rid, ok := secret.(infra.ExpressionValue).Expression.OwnerResourceID()
	require.True(t, ok)
	require.Equal(t, "resourceId('Microsoft.Storage/storageAccounts', 'mystorage')", rid.Value())
}
