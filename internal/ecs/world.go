// Package ecs is the registry of world objects. Each object is an EntityID
// carrying plain-data components; the game looks objects up by handle and
// never by name. Objects live as long as the world does.
package ecs

import "slices"

// World hands out entity IDs and stores their components by type.
type World struct {
	nextID     EntityID
	components map[ComponentType]map[EntityID]Component
}

func NewWorld() *World {
	return &World{
		nextID:     1,
		components: make(map[ComponentType]map[EntityID]Component),
	}
}

// CreateEntity mints the next entity ID.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// Alive reports whether id was minted by this world.
func (w *World) Alive(id EntityID) bool { return id != NilEntity && id < w.nextID }

// Len is the number of entities created so far.
func (w *World) Len() int { return int(w.nextID - 1) }

// Add attaches c to id, replacing any component of the same type. IDs this
// world never minted are ignored.
func (w *World) Add(id EntityID, c Component) {
	if !w.Alive(id) {
		return
	}
	store := w.components[c.Type()]
	if store == nil {
		store = make(map[EntityID]Component)
		w.components[c.Type()] = store
	}
	store[id] = c
}

// Get returns the component of type t on id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	return w.components[t][id]
}

func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Query returns the entities carrying every listed component type, in
// creation order.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	var ids []EntityID
	for id := range w.components[types[0]] {
		if !slices.ContainsFunc(types[1:], func(t ComponentType) bool { return !w.Has(id, t) }) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
