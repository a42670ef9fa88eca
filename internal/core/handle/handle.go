package handle

// ID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on release to invalidate stale refs.
// Generations start at 1, so the zero ID never names a live slot.
type ID uint64

// None is the zero ID; it is never handed out.
const None ID = 0

func New(index uint32, generation uint32) ID {
	return ID(uint64(generation)<<32 | uint64(index))
}

func (id ID) Index() uint32      { return uint32(id) }
func (id ID) Generation() uint32 { return uint32(id >> 32) }
func (id ID) IsZero() bool       { return id == None }

// Allocator manages generational indices with a free list.
// It backs tables whose entries come and go (deferred tasks, cancel tokens).
type Allocator struct {
	generations []uint32
	live        []bool
	freeList    []uint32
	nextIndex   uint32
	count       int
}

func NewAllocator(capacityHint int) *Allocator {
	return &Allocator{
		generations: make([]uint32, 0, capacityHint),
		live:        make([]bool, 0, capacityHint),
		freeList:    make([]uint32, 0, capacityHint/4+1),
	}
}

func (a *Allocator) Create() ID {
	a.count++
	if len(a.freeList) > 0 {
		idx := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		a.live[idx] = true
		return New(idx, a.generations[idx])
	}
	idx := a.nextIndex
	a.nextIndex++
	a.generations = append(a.generations, 1)
	a.live = append(a.live, true)
	return New(idx, a.generations[idx])
}

func (a *Allocator) Alive(id ID) bool {
	idx := id.Index()
	if idx >= a.nextIndex || id.IsZero() {
		return false
	}
	return a.live[idx] && a.generations[idx] == id.Generation()
}

// Destroy releases id. Stale or unknown ids are ignored; it reports whether
// anything was released.
func (a *Allocator) Destroy(id ID) bool {
	if !a.Alive(id) {
		return false
	}
	idx := id.Index()
	a.generations[idx]++
	a.live[idx] = false
	a.freeList = append(a.freeList, idx)
	a.count--
	return true
}

// Len returns the number of live ids.
func (a *Allocator) Len() int { return a.count }

// Cap returns how many indices have ever been allocated.
func (a *Allocator) Cap() int { return int(a.nextIndex) }
