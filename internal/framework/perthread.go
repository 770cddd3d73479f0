package framework

import "golang.org/x/sys/cpu"

type paddedSlot[T any] struct {
	value T
	_     cpu.CacheLinePad
}

// PerThread holds one value per worker slot. Slots are padded to separate
// cache lines so that workers updating neighbouring slots do not contend.
type PerThread[T any] struct {
	slots []paddedSlot[T]
}

// Resize discards all slots and creates n new ones, each set to init().
func (p *PerThread[T]) Resize(n int, init func() T) {
	p.slots = make([]paddedSlot[T], n)
	for i := range p.slots {
		p.slots[i].value = init()
	}
}

// Len returns the number of slots.
func (p *PerThread[T]) Len() int { return len(p.slots) }

// At returns a pointer to slot i.
func (p *PerThread[T]) At(i int) *T { return &p.slots[i].value }

// Reduce combines all slots in ascending order: merge(acc, slot) is called
// with acc starting as slot 0. It returns the zero value when there are no
// slots.
func (p *PerThread[T]) Reduce(merge func(acc *T, next T)) T {
	var acc T
	if len(p.slots) == 0 {
		return acc
	}
	acc = p.slots[0].value
	for i := 1; i < len(p.slots); i++ {
		merge(&acc, p.slots[i].value)
	}
	return acc
}
