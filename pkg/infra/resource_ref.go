// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package infra

import "github.com/raymens/farmer/pkg/azure"

type refKind int

const (
	refAutoCreateNamed refKind = iota
	refAutoCreateDerived
	refExternalManaged
	refExternalUnmanaged
)

// ResourceRef points at a resource related to the consuming configuration T
// and decides how the relationship is emitted:
//
//   - AutoCreateNamed: fixed name, deployed by this template, a dependency.
//   - AutoCreateDerived: name computed from the consuming config, deployed, a
//     dependency.
//   - ExternalManaged: fixed name, deployed elsewhere in the same template,
//     still a dependency.
//   - ExternalUnmanaged: fixed name, pre-existing outside this deployment,
//     neither deployed nor a dependency.
//
// Resolution is total: every variant yields a concrete name.
type ResourceRef[T any] struct {
	kind   refKind
	name   azure.ResourceName
	derive func(T) azure.ResourceName
}

func AutoCreateNamed[T any](name azure.ResourceName) ResourceRef[T] {
	return ResourceRef[T]{kind: refAutoCreateNamed, name: name}
}

func AutoCreateDerived[T any](derive func(T) azure.ResourceName) ResourceRef[T] {
	return ResourceRef[T]{kind: refAutoCreateDerived, derive: derive}
}

func ExternalManaged[T any](name azure.ResourceName) ResourceRef[T] {
	return ResourceRef[T]{kind: refExternalManaged, name: name}
}

func ExternalUnmanaged[T any](name azure.ResourceName) ResourceRef[T] {
	return ResourceRef[T]{kind: refExternalUnmanaged, name: name}
}

// CreateResourceName resolves the concrete name of the referenced resource.
// Derived names are re-computed against the given config on every call and
// never cached: the same ref may be resolved against different consuming
// configs, e.g. a linked resource deriving its account name from a config
// other than the one that owns the ref.
func (r ResourceRef[T]) CreateResourceName(config T) azure.ResourceName {
	if r.kind == refAutoCreateDerived {
		return r.derive(config)
	}

	return r.name
}

// Dependable reports whether the referencing resource must declare a
// dependsOn edge to this reference. Every variant except ExternalUnmanaged
// participates in the dependency graph.
func (r ResourceRef[T]) Dependable() bool {
	return r.kind != refExternalUnmanaged
}

// Deployable reports whether this template must emit a declaration for the
// referenced resource. Only the AutoCreate variants are created here.
func (r ResourceRef[T]) Deployable() bool {
	return r.kind == refAutoCreateNamed || r.kind == refAutoCreateDerived
}
