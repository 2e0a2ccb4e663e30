// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package infra

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raymens/farmer/pkg/azure"
)

func Test_SecureParameter(t *testing.T) {
	parameter := NewSecureParameter("admin-password")

	require.Equal(t, "parameters('admin-password')", parameter.AsArmRef().Value())
	require.Equal(t, "[parameters('admin-password')]", parameter.ArmValue())
	require.Equal(t, "securestring", parameter.Definition().Type)
}

func Test_Setting_ArmValue(t *testing.T) {
	t.Run("Literal", func(t *testing.T) {
		var setting Setting = LiteralValue("plain-value")
		require.Equal(t, "plain-value", setting.ArmValue())
	})

	t.Run("Parameter", func(t *testing.T) {
		var setting Setting = ParameterValue{Parameter: NewSecureParameter("api-key")}
		require.Equal(t, "[parameters('api-key')]", setting.ArmValue())
	})

	t.Run("Expression", func(t *testing.T) {
		expr, err := azure.NewExpression("listKeys(x, 'v').keys[0].value")
		require.NoError(t, err)

		var setting Setting = ExpressionValue{Expression: expr}
		require.Equal(t, "[listKeys(x, 'v').keys[0].value]", setting.ArmValue())
	})
}

func Test_SettingDependencies(t *testing.T) {
	storageAccounts := azure.NewResourceType("Microsoft.Storage/storageAccounts", "2022-09-01")
	key := azure.ResourceID(storageAccounts, azure.NewResourceName("mystorage"), "", "").
		Map(func(rid string) string { return "listKeys(" + rid + ", '2022-09-01').keys[0].value" })

	unowned, err := azure.NewExpression("variables('x')")
	require.NoError(t, err)

	dependsOn := SettingDependencies(map[string]Setting{
		"STORAGE_KEY":  ExpressionValue{Expression: key},
		"STORAGE_KEY2": ExpressionValue{Expression: key},
		"UNOWNED":      ExpressionValue{Expression: unowned},
		"PLAIN":        LiteralValue("nothing"),
		"SECRET":       ParameterValue{Parameter: NewSecureParameter("api-key")},
	})

	// one edge per owner, not per setting
	require.Equal(t,
		[]string{"[resourceId('Microsoft.Storage/storageAccounts', 'mystorage')]"},
		dependsOn)
}

func Test_SecretValue_ArmValue(t *testing.T) {
	var secret SecretValue = ParameterValue{Parameter: NewSecureParameter("db-key")}
	require.Equal(t, "[parameters('db-key')]", secret.ArmValue())

	secret = LiteralValue("hunter2")
	require.Equal(t, "hunter2", secret.ArmValue())
}
