// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import "strings"

// ResourceName is the name of a resource within a template. Names compare by
// value and may be composed into nested-resource names with Append, which
// joins segments with a "/" separator. Names never carry ARM bracket syntax;
// deploy-time values belong in an Expression instead.
type ResourceName struct {
	value string
}

// EmptyName is the sentinel for "no name given". The sentinel is the
// empty-string name: NewResourceName("") compares equal to it, and IfEmpty
// substitutes a default for both.
var EmptyName = ResourceName{}

func NewResourceName(value string) ResourceName {
	return ResourceName{value: value}
}

func (n ResourceName) Value() string {
	return n.value
}

func (n ResourceName) String() string {
	return n.value
}

func (n ResourceName) IsEmpty() bool {
	return n == EmptyName
}

// IfEmpty substitutes a default only when this name is the empty sentinel.
func (n ResourceName) IfEmpty(defaultValue string) ResourceName {
	if n.IsEmpty() {
		return NewResourceName(defaultValue)
	}

	return n
}

// Map returns a new name with the transformed value.
func (n ResourceName) Map(f func(string) string) ResourceName {
	return NewResourceName(f(n.value))
}

// Append joins this name and a child segment with the "/" separator used by
// nested ARM resource names.
func (n ResourceName) Append(child ResourceName) ResourceName {
	return n.AppendValue(child.value)
}

func (n ResourceName) AppendValue(child string) ResourceName {
	return NewResourceName(n.value + "/" + child)
}

// Location is an Azure deployment region.
type Location string

const (
	LocationEastUS        Location = "EastUS"
	LocationEastUS2       Location = "EastUS2"
	LocationWestUS        Location = "WestUS"
	LocationWestUS2       Location = "WestUS2"
	LocationWestEurope    Location = "WestEurope"
	LocationNorthEurope   Location = "NorthEurope"
	LocationUKSouth       Location = "UKSouth"
	LocationSoutheastAsia Location = "SoutheastAsia"
)

// ArmValue is the normalized form emitted into templates. ARM accepts any
// casing but azd tooling compares regions lower-cased, so we always emit
// lower case.
func (l Location) ArmValue() string {
	return strings.ToLower(string(l))
}

// ResourceType is an ARM resource type path paired with the API version used
// to address it.
type ResourceType struct {
	Type       string
	APIVersion string
}

func NewResourceType(resourceType string, apiVersion string) ResourceType {
	return ResourceType{Type: resourceType, APIVersion: apiVersion}
}

// Create produces the common declaration envelope for a resource of this
// type. Optional fields are zero-valued when absent and marshal as omitted
// rather than null, which keeps minimal templates valid.
func (t ResourceType) Create(
	name ResourceName,
	location Location,
	dependsOn []string,
	tags map[string]string,
) ResourceRecord {
	return ResourceRecord{
		Type:       t.Type,
		APIVersion: t.APIVersion,
		Name:       name.Value(),
		Location:   location.ArmValue(),
		DependsOn:  dependsOn,
		Tags:       tags,
	}
}
