// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package dns declares DNS zone and record set resources.
package dns

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/raymens/farmer/pkg/azure"
	"github.com/raymens/farmer/pkg/infra"
)

var (
	Zones        = azure.NewResourceType("Microsoft.Network/dnsZones", "2018-05-01")
	CNameRecords = azure.NewResourceType("Microsoft.Network/dnsZones/CNAME", "2018-05-01")
	ARecords     = azure.NewResourceType("Microsoft.Network/dnsZones/A", "2018-05-01")
)

// DNS zones are global resources; ARM rejects any other location.
const zoneLocation = azure.Location("global")

// ZoneBuilder emits a DNS zone declaration.
type ZoneBuilder struct {
	Name azure.ResourceName
	Tags map[string]string
}

func NewZoneBuilder(name string) *ZoneBuilder {
	return &ZoneBuilder{Name: azure.NewResourceName(name)}
}

func (b *ZoneBuilder) DependencyName() azure.ResourceName { return b.Name }

func (b *ZoneBuilder) BuildResources(location azure.Location) ([]infra.ArmResource, error) {
	if b.Name.IsEmpty() {
		return nil, fmt.Errorf("dns zone requires a name")
	}

	record := Zones.Create(b.Name, zoneLocation, nil, b.Tags)
	return []infra.ArmResource{&Zone{name: b.Name, record: record}}, nil
}

// RecordConfig describes a record set inside a zone. The zone reference
// decides whether the zone itself is declared and depended upon.
type RecordConfig struct {
	Name azure.ResourceName
	Zone infra.ResourceRef[RecordConfig]
	// TTL in seconds. Required: ARM rejects record sets without one.
	TTL   *int
	CName string
}

// RecordBuilder emits a CNAME record set, declaring the zone as well when
// the zone reference is deployable.
type RecordBuilder struct {
	Config RecordConfig
}

func (b *RecordBuilder) DependencyName() azure.ResourceName {
	return b.Config.Zone.CreateResourceName(b.Config).Append(b.Config.Name)
}

func (b *RecordBuilder) validate() error {
	var err error

	if b.Config.Name.IsEmpty() {
		err = multierr.Append(err, fmt.Errorf("dns record requires a name"))
	}
	if b.Config.TTL == nil {
		err = multierr.Append(err, fmt.Errorf("dns record %q requires a TTL", b.Config.Name.Value()))
	}
	if b.Config.CName == "" {
		err = multierr.Append(err, fmt.Errorf("dns record %q requires a CNAME target", b.Config.Name.Value()))
	}

	return err
}

func (b *RecordBuilder) BuildResources(location azure.Location) ([]infra.ArmResource, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	zoneName := b.Config.Zone.CreateResourceName(b.Config)

	var resources []infra.ArmResource
	if b.Config.Zone.Deployable() {
		resources = append(resources, &Zone{
			name:   zoneName,
			record: Zones.Create(zoneName, zoneLocation, nil, nil),
		})
	}

	var dependsOn []string
	if b.Config.Zone.Dependable() {
		dependsOn = append(dependsOn, azure.ResourceID(Zones, zoneName, "", "").Eval())
	}

	record := CNameRecords.Create(zoneName.Append(b.Config.Name), "", dependsOn, nil)
	record.Properties = recordProperties{
		TTL:   *b.Config.TTL,
		CName: &cnameTarget{CName: b.Config.CName},
	}

	resources = append(resources, &RecordSet{name: b.Config.Name, record: record})
	return resources, nil
}

type recordProperties struct {
	TTL   int          `json:"TTL"`
	CName *cnameTarget `json:"CNAMERecord,omitempty"`
}

type cnameTarget struct {
	CName string `json:"cname"`
}

// Zone is the declared DNS zone resource.
type Zone struct {
	name   azure.ResourceName
	record azure.ResourceRecord
}

func (z *Zone) ResourceName() azure.ResourceName { return z.name }
func (z *Zone) JSONModel() any                   { return z.record }

// RecordSet is the declared record set resource.
type RecordSet struct {
	name   azure.ResourceName
	record azure.ResourceRecord
}

func (r *RecordSet) ResourceName() azure.ResourceName { return r.name }
func (r *RecordSet) JSONModel() any                   { return r.record }
