package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue for callers that must not mutate
// stores mid-iteration.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy removes id from every store and retires it immediately.
// Returns false when id was already gone.
func (w *World) Destroy(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	w.registry.RemoveAll(id)
	return w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for FlushDestroyQueue.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and returns the ids that were
// actually live. Duplicates and stale ids are dropped.
func (w *World) FlushDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	flushed := make([]EntityID, 0, len(w.destroyQueue))
	for _, id := range w.destroyQueue {
		if w.Destroy(id) {
			flushed = append(flushed, id)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return flushed
}
