// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseArmParameterFile(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		parameters, err := ParseArmParameterFile([]byte(`{
			"$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#",
			"contentVersion": "1.0.0.0",
			"parameters": {
				"admin-password": {"value": "hunter2"}
			}
		}`))
		require.NoError(t, err)
		require.Equal(t, ArmParameters{"admin-password": {Value: "hunter2"}}, parameters)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := ParseArmParameterFile([]byte("not json"))
		require.ErrorContains(t, err, "parsing parameters file")
	})
}

func Test_ArmTemplateParameterDefinition_Secure(t *testing.T) {
	// ARM accepts the type name in any casing
	for _, secureType := range []string{"securestring", "secureString", "secureObject"} {
		definition := ArmTemplateParameterDefinition{Type: secureType}
		require.True(t, definition.Secure(), secureType)
	}

	definition := ArmTemplateParameterDefinition{Type: "string"}
	require.False(t, definition.Secure())
}
