package ecs

// Each2 visits entities present in both stores, driving the loop from the
// smaller one. Visiting order is unspecified; fn may remove the visited id.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				fn(id, a, b)
			}
		}
		return
	}
	for id, b := range sb.data {
		if a, ok := sa.data[id]; ok {
			fn(id, a, b)
		}
	}
}

// Each3 visits entities present in all three stores.
func Each3[A, B, C any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], sc *PtrComponentStore[C], fn func(EntityID, *A, *B, *C)) {
	Each2(sa, sb, func(id EntityID, a *A, b *B) {
		if c, ok := sc.data[id]; ok {
			fn(id, a, b, c)
		}
	})
}

// Count2 returns how many entities have both components.
func Count2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B]) int {
	n := 0
	Each2(sa, sb, func(EntityID, *A, *B) { n++ })
	return n
}
