// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cosmosdb declares Cosmos DB account, database and container
// resources.
package cosmosdb

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/raymens/farmer/pkg/azure"
	"github.com/raymens/farmer/pkg/infra"
)

var (
	DatabaseAccounts = azure.NewResourceType("Microsoft.DocumentDB/databaseAccounts", "2021-04-15")
	SqlDatabases     = azure.NewResourceType("Microsoft.DocumentDB/databaseAccounts/sqlDatabases", "2021-04-15")
	Containers       = azure.NewResourceType(
		"Microsoft.DocumentDB/databaseAccounts/sqlDatabases/containers", "2021-04-15")
)

// ContainerConfig describes a container within a database. The partition key
// is required: Cosmos refuses containers without one.
type ContainerConfig struct {
	Name         azure.ResourceName
	PartitionKey string
}

// DatabaseConfig describes a SQL database and the account it lives in. The
// account reference is resolved against this config, so a Derived account
// ref can compute the account name from the database name, and a second
// database config can link to the account of a first one.
type DatabaseConfig struct {
	Name       azure.ResourceName
	Account    infra.ResourceRef[DatabaseConfig]
	Throughput int
	Containers []ContainerConfig
}

// DatabaseBuilder emits the database and its containers, declaring the
// account as well when the account reference is deployable.
type DatabaseBuilder struct {
	Config DatabaseConfig
}

// NewDatabaseBuilder makes a database whose account name is derived from the
// database name, the common single-account case.
func NewDatabaseBuilder(name string) *DatabaseBuilder {
	return &DatabaseBuilder{Config: DatabaseConfig{
		Name: azure.NewResourceName(name),
		Account: infra.AutoCreateDerived[DatabaseConfig](func(c DatabaseConfig) azure.ResourceName {
			return c.Name.Map(func(s string) string { return s + "-account" })
		}),
	}}
}

func (b *DatabaseBuilder) DependencyName() azure.ResourceName {
	return b.Config.Account.CreateResourceName(b.Config).Append(b.Config.Name)
}

func (b *DatabaseBuilder) validate() error {
	var err error

	if b.Config.Name.IsEmpty() {
		err = multierr.Append(err, fmt.Errorf("cosmos database requires a name"))
	}

	for _, container := range b.Config.Containers {
		if container.Name.IsEmpty() {
			err = multierr.Append(err, fmt.Errorf("cosmos container requires a name"))
		}
		if container.PartitionKey == "" {
			err = multierr.Append(err, fmt.Errorf(
				"cosmos container %q requires a partition key", container.Name.Value()))
		}
	}

	return err
}

func (b *DatabaseBuilder) BuildResources(location azure.Location) ([]infra.ArmResource, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	accountName := b.Config.Account.CreateResourceName(b.Config)
	databaseName := accountName.Append(b.Config.Name)

	var resources []infra.ArmResource

	if b.Config.Account.Deployable() {
		account := DatabaseAccounts.Create(accountName, location, nil, nil)
		account.Kind = "GlobalDocumentDB"
		account.Properties = accountProperties{
			DatabaseAccountOfferType: "Standard",
			Locations: []accountLocation{
				{LocationName: location.ArmValue(), FailoverPriority: 0},
			},
		}
		resources = append(resources, &resource{name: accountName, record: account})
	}

	var databaseDependsOn []string
	if b.Config.Account.Dependable() {
		databaseDependsOn = append(databaseDependsOn,
			azure.ResourceID(DatabaseAccounts, accountName, "", "").Eval())
	}

	throughput := b.Config.Throughput
	if throughput == 0 {
		throughput = 400
	}

	database := SqlDatabases.Create(databaseName, "", databaseDependsOn, nil)
	database.Properties = databaseProperties{
		Resource: namedResource{ID: b.Config.Name.Value()},
		Options:  throughputOptions{Throughput: throughput},
	}
	resources = append(resources, &resource{name: databaseName, record: database})

	for _, containerConfig := range b.Config.Containers {
		containerName := databaseName.Append(containerConfig.Name)

		container := Containers.Create(containerName, "", []string{
			azure.ResourceID(SqlDatabases, databaseName, "", "").Eval(),
		}, nil)
		container.Properties = containerProperties{
			Resource: containerResource{
				ID: containerConfig.Name.Value(),
				PartitionKey: partitionKey{
					Paths: []string{containerConfig.PartitionKey},
					Kind:  "Hash",
				},
			},
		}
		resources = append(resources, &resource{name: containerName, record: container})
	}

	return resources, nil
}

// PrimaryKey is the deploy-time expression reading the account's primary
// master key, attributed to the account.
func (b *DatabaseBuilder) PrimaryKey() infra.SecretValue {
	accountName := b.Config.Account.CreateResourceName(b.Config)
	rid := azure.ResourceID(DatabaseAccounts, accountName, "", "")
	expr := rid.Map(func(rid string) string {
		return fmt.Sprintf("listKeys(%s, '%s').primaryMasterKey", rid, DatabaseAccounts.APIVersion)
	}).WithOwner(accountName)

	return infra.ExpressionValue{Expression: expr}
}

type accountProperties struct {
	DatabaseAccountOfferType string            `json:"databaseAccountOfferType"`
	Locations                []accountLocation `json:"locations"`
}

type accountLocation struct {
	LocationName     string `json:"locationName"`
	FailoverPriority int    `json:"failoverPriority"`
}

type databaseProperties struct {
	Resource namedResource     `json:"resource"`
	Options  throughputOptions `json:"options"`
}

type namedResource struct {
	ID string `json:"id"`
}

type throughputOptions struct {
	Throughput int `json:"throughput"`
}

type containerProperties struct {
	Resource containerResource `json:"resource"`
}

type containerResource struct {
	ID           string       `json:"id"`
	PartitionKey partitionKey `json:"partitionKey"`
}

type partitionKey struct {
	Paths []string `json:"paths"`
	Kind  string   `json:"kind"`
}

type resource struct {
	name   azure.ResourceName
	record azure.ResourceRecord
}

func (r *resource) ResourceName() azure.ResourceName { return r.name }
func (r *resource) JSONModel() any                   { return r.record }
