package ecs

// EntityID is the handle by which the engine addresses a world object
// (a vendor, a storage). It is never reused within one World.
type EntityID uint64

// NilEntity is the zero value; no live object has this ID.
const NilEntity EntityID = 0

// ComponentType keys a component store.
type ComponentType uint8

// Component is implemented by every data struct attached to an entity.
type Component interface {
	Type() ComponentType
}
