// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/stretchr/testify/require"

	"github.com/raymens/farmer/pkg/azure"
)

var fakeAccounts = azure.NewResourceType("Microsoft.Fake/accounts", "2022-01-01")
var fakeLinks = azure.NewResourceType("Microsoft.Fake/links", "2022-01-01")

type fakeResource struct {
	name   azure.ResourceName
	record azure.ResourceRecord
	params []SecureParameter
}

func (r *fakeResource) ResourceName() azure.ResourceName { return r.name }
func (r *fakeResource) JSONModel() any                   { return r.record }
func (r *fakeResource) SecureParameters() []SecureParameter {
	return r.params
}

type accountConfig struct {
	Name azure.ResourceName
}

type accountBuilder struct {
	config accountConfig
	params []SecureParameter
	err    error
}

func (b *accountBuilder) DependencyName() azure.ResourceName { return b.config.Name }

func (b *accountBuilder) BuildResources(location azure.Location) ([]ArmResource, error) {
	if b.err != nil {
		return nil, b.err
	}

	return []ArmResource{&fakeResource{
		name:   b.config.Name,
		record: fakeAccounts.Create(b.config.Name, location, nil, nil),
		params: b.params,
	}}, nil
}

// linkBuilder references an account through a ResourceRef, the way a linked
// resource kind would reference its parent account.
type linkConfig struct {
	Name    azure.ResourceName
	Account ResourceRef[linkConfig]
}

type linkBuilder struct {
	config linkConfig
}

func (b *linkBuilder) DependencyName() azure.ResourceName { return b.config.Name }

func (b *linkBuilder) BuildResources(location azure.Location) ([]ArmResource, error) {
	accountName := b.config.Account.CreateResourceName(b.config)

	var dependsOn []string
	if b.config.Account.Dependable() {
		dependsOn = append(dependsOn, azure.ResourceID(fakeAccounts, accountName, "", "").Eval())
	}

	record := fakeLinks.Create(accountName.Append(b.config.Name), location, dependsOn, nil)
	return []ArmResource{&fakeResource{name: b.config.Name, record: record}}, nil
}

func Test_Compile_ResourceOrderAndDependencies(t *testing.T) {
	account := &accountBuilder{config: accountConfig{Name: azure.NewResourceName("acc")}}
	link := &linkBuilder{config: linkConfig{
		Name: azure.NewResourceName("lnk"),
		Account: AutoCreateDerived[linkConfig](func(linkConfig) azure.ResourceName {
			return account.DependencyName()
		}),
	}}

	deployment, err := Compile(azure.LocationWestEurope, []Builder{account, link}, nil)
	require.NoError(t, err)
	require.Len(t, deployment.Template.Resources, 2)

	// input order is preserved
	require.Equal(t, "acc", deployment.Template.Resources[0].ResourceName().Value())
	require.Equal(t, "lnk", deployment.Template.Resources[1].ResourceName().Value())

	record := deployment.Template.Resources[1].JSONModel().(azure.ResourceRecord)
	require.Equal(t, "acc/lnk", record.Name)
	require.Equal(t,
		[]string{"[resourceId('Microsoft.Fake/accounts', 'acc')]"},
		record.DependsOn)
}

func Test_Compile_UnmanagedReferenceHasNoEdge(t *testing.T) {
	link := &linkBuilder{config: linkConfig{
		Name:    azure.NewResourceName("lnk"),
		Account: ExternalUnmanaged[linkConfig](azure.NewResourceName("pre-existing")),
	}}

	deployment, err := Compile(azure.LocationWestEurope, []Builder{link}, nil)
	require.NoError(t, err)
	require.Len(t, deployment.Template.Resources, 1)

	record := deployment.Template.Resources[0].JSONModel().(azure.ResourceRecord)
	require.Equal(t, "pre-existing/lnk", record.Name)
	require.Empty(t, record.DependsOn)
}

func Test_Compile_DeduplicatesSecureParameters(t *testing.T) {
	first := &accountBuilder{
		config: accountConfig{Name: azure.NewResourceName("one")},
		params: []SecureParameter{NewSecureParameter("admin-password")},
	}
	second := &accountBuilder{
		config: accountConfig{Name: azure.NewResourceName("two")},
		params: []SecureParameter{
			NewSecureParameter("admin-password"),
			NewSecureParameter("api-key"),
		},
	}

	deployment, err := Compile(azure.LocationWestEurope, []Builder{first, second}, nil)
	require.NoError(t, err)

	require.Equal(t, []SecureParameter{
		NewSecureParameter("admin-password"),
		NewSecureParameter("api-key"),
	}, deployment.Template.Parameters)
}

func Test_Compile_BuilderErrorAbortsBuild(t *testing.T) {
	good := &accountBuilder{config: accountConfig{Name: azure.NewResourceName("good")}}
	bad := &accountBuilder{
		config: accountConfig{Name: azure.NewResourceName("bad")},
		err:    errors.New("no TTL given"),
	}

	deployment, err := Compile(azure.LocationWestEurope, []Builder{good, bad}, nil)
	require.Error(t, err)
	require.ErrorContains(t, err, "no TTL given")
	require.Nil(t, deployment)
}

type postDeployBuilder struct {
	accountBuilder
	message string
}

func (b *postDeployBuilder) Run(ctx context.Context, resourceGroupName string) (string, error) {
	return b.message, nil
}

func Test_Compile_CollectsPostDeployTasks(t *testing.T) {
	builder := &postDeployBuilder{
		accountBuilder: accountBuilder{config: accountConfig{Name: azure.NewResourceName("acc")}},
		message:        "warmed up",
	}

	deployment, err := Compile(azure.LocationWestEurope, []Builder{builder}, nil)
	require.NoError(t, err)
	require.Len(t, deployment.PostDeployTasks, 1)

	message, err := deployment.PostDeployTasks[0].Run(context.Background(), "rg-test")
	require.NoError(t, err)
	require.Equal(t, "warmed up", message)
}

func Test_Compile_Snapshot(t *testing.T) {
	account := &accountBuilder{
		config: accountConfig{Name: azure.NewResourceName("acc")},
		params: []SecureParameter{NewSecureParameter("admin-password")},
	}

	outputExpr, err := azure.NewExpression("reference(resourceId('Microsoft.Fake/accounts', 'acc'), '2022-01-01').endpoint")
	require.NoError(t, err)

	deployment, err := Compile(
		azure.LocationWestEurope,
		[]Builder{account},
		[]Output{{Name: "endpoint", Value: outputExpr}},
	)
	require.NoError(t, err)

	raw, err := deployment.RawTemplate()
	require.NoError(t, err)

	snapshotter := cupaloy.New(cupaloy.SnapshotSubdirectory("testdata"))
	snapshotter.SnapshotT(t, string(raw))
}

func Test_Deployment_RawParameters(t *testing.T) {
	deployment := &Deployment{Template: &ArmTemplate{}}

	raw, err := deployment.RawParameters(azure.ArmParameters{
		"api-key": {Value: "hunter2"},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#",
		"contentVersion": "1.0.0.0",
		"parameters": {"api-key": {"value": "hunter2"}}
	}`, string(raw))
}
