// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package storage declares storage account resources.
package storage

import (
	"fmt"
	"regexp"

	"go.uber.org/multierr"

	"github.com/raymens/farmer/pkg/azure"
	"github.com/raymens/farmer/pkg/infra"
)

var StorageAccounts = azure.NewResourceType("Microsoft.Storage/storageAccounts", "2022-09-01")

// storage account names are globally scoped DNS labels
var accountNameRegex = regexp.MustCompile("^[a-z0-9]{3,24}$")

type Sku string

const (
	SkuStandardLRS Sku = "Standard_LRS"
	SkuStandardGRS Sku = "Standard_GRS"
	SkuStandardZRS Sku = "Standard_ZRS"
	SkuPremiumLRS  Sku = "Premium_LRS"
)

// AccountConfig describes a storage account to deploy.
type AccountConfig struct {
	Name azure.ResourceName
	Sku  Sku
	Tags map[string]string
}

// AccountBuilder emits a single storage account declaration.
type AccountBuilder struct {
	Config AccountConfig
}

func NewAccountBuilder(name string) *AccountBuilder {
	return &AccountBuilder{Config: AccountConfig{Name: azure.NewResourceName(name)}}
}

func (b *AccountBuilder) DependencyName() azure.ResourceName {
	return b.Config.Name
}

func (b *AccountBuilder) validate() error {
	var err error

	if b.Config.Name.IsEmpty() {
		err = multierr.Append(err, fmt.Errorf("storage account requires a name"))
	} else if !accountNameRegex.MatchString(b.Config.Name.Value()) {
		err = multierr.Append(err, fmt.Errorf(
			"storage account name %q must be 3-24 lower-case letters and digits", b.Config.Name.Value()))
	}

	return err
}

func (b *AccountBuilder) BuildResources(location azure.Location) ([]infra.ArmResource, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	sku := b.Config.Sku
	if sku == "" {
		sku = SkuStandardLRS
	}

	record := StorageAccounts.Create(b.Config.Name, location, nil, b.Config.Tags)
	record.Sku = &azure.Sku{Name: string(sku)}
	record.Kind = "StorageV2"

	return []infra.ArmResource{&Account{name: b.Config.Name, record: record}}, nil
}

// Key is the deploy-time expression reading the account's primary access
// key, attributed to the account for dependency tracking.
func (b *AccountBuilder) Key() azure.Expression {
	return AccountKey(b.Config.Name)
}

// ConnectionString is the deploy-time connection string for the account.
func (b *AccountBuilder) ConnectionString() infra.SecretValue {
	expr := azure.Concat(
		azure.Literal("DefaultEndpointsProtocol=https;AccountName="+b.Config.Name.Value()+";AccountKey="),
		AccountKey(b.Config.Name),
	).WithOwner(b.Config.Name)

	return infra.ExpressionValue{Expression: expr}
}

// AccountKey builds the listKeys expression for any account name, owned by
// that account.
func AccountKey(name azure.ResourceName) azure.Expression {
	rid := azure.ResourceID(StorageAccounts, name, "", "")
	expr := rid.Map(func(rid string) string {
		return fmt.Sprintf("listKeys(%s, '%s').keys[0].value", rid, StorageAccounts.APIVersion)
	})

	return expr.WithOwner(name)
}

// Account is the declared storage account resource.
type Account struct {
	name   azure.ResourceName
	record azure.ResourceRecord
}

func (a *Account) ResourceName() azure.ResourceName { return a.name }
func (a *Account) JSONModel() any                   { return a.record }
