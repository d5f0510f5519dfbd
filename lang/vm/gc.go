package vm

// gcState is the thread's tri-color mark-and-sweep collector. It owns the
// intern table (so it can run the weak-reference pass over it) and the
// linked list of every object ever allocated (so sweep can walk and free
// them without a separate data structure to keep in sync).
type gcState struct {
	th *Thread

	allObjects *objHeader
	gray       []heapObject

	strings *Table

	bytesAllocated int
	nextGC         int

	// logGC is not read by collectGarbage, which prints no trace whatever
	// its value; nothing in the package sets it.
	logGC bool
}

const initialNextGC = 1 << 20 // bytes, matches clox's GC_HEAP_GROW_FACTOR starting point

func newGCState(th *Thread) *gcState {
	return &gcState{th: th, strings: newTable(), nextGC: initialNextGC}
}

// track registers a freshly allocated object with the collector and
// accounts for its size, possibly triggering a collection before
// returning control to the allocator. size is an approximate
// accounting unit, not a precise byte count (Go doesn't expose one),
// which is good enough for the heap-growth heuristic this mirrors. self
// is the concrete object h is embedded in; storing it lets markObject
// push the right thing onto the gray worklist from just an *objHeader.
func (gc *gcState) track(h *objHeader, self heapObject, size int) {
	h.self = self
	h.next = gc.allObjects
	gc.allObjects = h
	gc.bytesAllocated += size

	if gc.bytesAllocated > gc.nextGC {
		gc.collectGarbage()
	}
}

// collectGarbage runs one full mark-sweep cycle: mark every root and
// everything reachable from it, drop interned strings nothing reached,
// then free every unmarked object.
func (gc *gcState) collectGarbage() {
	gc.markRoots()
	gc.traceReferences()
	gc.strings.removeWhite()
	gc.sweep()

	gc.nextGC = gc.bytesAllocated * 2
	if gc.nextGC < initialNextGC {
		gc.nextGC = initialNextGC
	}
}

func (gc *gcState) markRoots() {
	th := gc.th
	for i := 0; i < th.sp; i++ {
		gc.markValue(th.stack[i])
	}
	for i := 0; i < th.frameCount; i++ {
		gc.markObject(th.frames[i].closure.object())
	}
	for uv := th.openUpvalues; uv != nil; uv = uv.next {
		gc.markObject(uv.object())
	}
	markTable(gc, th.globals)
	if th.initString != nil {
		gc.markObject(th.initString.object())
	}
}

func (gc *gcState) markValue(v Value) {
	if obj, ok := v.(heapObject); ok {
		gc.markObject(obj.object())
	}
}

func (gc *gcState) markObject(h *objHeader) {
	if h == nil || h.marked {
		return
	}
	h.marked = true
	if obj, ok := h.self.(heapObject); ok {
		gc.gray = append(gc.gray, obj)
	}
}

func (gc *gcState) traceReferences() {
	for len(gc.gray) > 0 {
		n := len(gc.gray) - 1
		obj := gc.gray[n]
		gc.gray = gc.gray[:n]
		gc.blacken(obj)
	}
}

// blacken marks every object directly referenced by obj, turning obj from
// gray (marked, not yet scanned) to black (marked, scanned).
func (gc *gcState) blacken(obj heapObject) {
	switch o := obj.(type) {
	case *String:
		// no references
	case *Native:
		// no references
	case *Upvalue:
		if !o.Open {
			gc.markValue(o.Closed)
		}
	case *Function:
		// Funcode constants are raw Go values (float64/string/*Funcode), not
		// heap objects, and a Funcode is shared static data owned by the
		// Closure's Fn field's lifetime, not separately GC-managed.
	case *Closure:
		gc.markObject(o.Fn.object())
		for _, uv := range o.Upvalues {
			gc.markObject(uv.object())
		}
	case *Class:
		for _, m := range o.Methods {
			gc.markObject(m.object())
		}
	case *Instance:
		gc.markObject(o.Class.object())
		markTable(gc, o.Fields)
	case *BoundMethod:
		gc.markValue(o.Receiver)
		gc.markObject(o.Method.object())
	}
}

// sweep walks the all-objects list, dropping every object that was not
// marked by this cycle and resetting the mark bit on survivors for the
// next one.
func (gc *gcState) sweep() {
	var prev *objHeader
	h := gc.allObjects
	for h != nil {
		if h.marked {
			h.marked = false
			prev = h
			h = h.next
			continue
		}
		unreached := h
		h = h.next
		if prev == nil {
			gc.allObjects = h
		} else {
			prev.next = h
		}
		_ = unreached // Go's own GC reclaims the memory once unreferenced
	}
}
