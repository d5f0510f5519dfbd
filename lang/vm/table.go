package vm

// entry is one slot of a Table. An empty slot has a nil Key and a Value of
// Nil{}; a tombstone (a deleted entry, kept so linear probing can still
// find entries that were inserted after it and hashed to the same slot)
// has a nil Key and a Value of Bool(true). Every occupied slot has a
// non-nil Key.
type entry struct {
	Key   *String
	Value Value
}

func (e entry) isTombstone() bool { return e.Key == nil && e.Value == (Bool(true)) }
func (e entry) isEmpty() bool     { return e.Key == nil && !e.isTombstone() }

// Table is Lox's hash table: open addressing with linear probing, a
// power-of-two capacity, grown at a 75% load factor (counting tombstones
// towards the load, so a table that is mostly deletions still grows
// instead of probing forever). It backs the globals table, instance field
// tables, and the string-intern table, and is also where the GC's weak
// reference pass (removeWhite) runs to drop interned strings that
// turned out to be garbage.
type Table struct {
	count   int // occupied + tombstones
	entries []entry
}

func newTable() *Table { return &Table{} }

const tableMaxLoad = 0.75

// Get returns the value stored for key, or (nil, false) if key is absent.
func (t *Table) Get(key *String) (Value, bool) {
	if len(t.entries) == 0 {
		return nil, false
	}
	e := t.find(key)
	if e.Key == nil {
		return nil, false
	}
	return e.Value, true
}

// Set stores value for key, growing the table first if needed. It reports
// whether this inserted a brand new key (as opposed to overwriting one).
func (t *Table) Set(key *String, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		t.adjustCapacity(growCapacity(len(t.entries)))
	}

	idx := t.findIndex(key)
	e := &t.entries[idx]
	isNewKey := e.Key == nil
	if isNewKey && e.isEmpty() {
		t.count++
	}
	e.Key = key
	e.Value = value
	return isNewKey
}

// Delete removes key from the table, leaving a tombstone so that later
// entries with the same probe sequence remain reachable.
func (t *Table) Delete(key *String) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := t.findIndex(key)
	e := &t.entries[idx]
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = Bool(true)
	return true
}

// addAll copies every live entry of src into t. Class inheritance does not
// use it: class method tables are Go maps, copied directly by OP_INHERIT.
func (t *Table) addAll(src *Table) {
	for _, e := range src.entries {
		if e.Key != nil {
			t.Set(e.Key, e.Value)
		}
	}
}

// findString looks up a string by its raw bytes and hash without first
// having an interned *String to compare against: this is the primitive
// the interner itself uses to decide whether "abc" already has a *String,
// comparing length, hash and then bytes before ever allocating a new
// object.
func (t *Table) findString(chars string, hash uint32) *String {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		switch {
		case e.Key == nil:
			if !e.isTombstone() {
				return nil
			}
		case e.Key.hash == hash && e.Key.chars == chars:
			return e.Key
		}
		idx = (idx + 1) & mask
	}
}

// removeWhite deletes every entry whose key is a string object the
// collector did not mark during this cycle: the table holds a weak
// reference to its keys (it must not be the thing keeping a string
// alive), so once the mark phase is done, anything left unmarked here is
// about to be swept and must be unlinked first.
func (t *Table) removeWhite() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil && !e.Key.marked {
			e.Key = nil
			e.Value = Bool(true)
		}
	}
}

// markTable marks every live key and value in t during the GC mark phase.
func markTable(gc *gcState, t *Table) {
	for _, e := range t.entries {
		if e.Key != nil {
			gc.markObject(e.Key.object())
		}
		gc.markValue(e.Value)
	}
}

func (t *Table) find(key *String) entry {
	if len(t.entries) == 0 {
		return entry{}
	}
	return t.entries[t.findIndex(key)]
}

// findIndex returns the slot key belongs in: either the slot already
// holding it, the first empty slot on its probe sequence, or the first
// tombstone seen along the way (reused so repeated insert/delete doesn't
// grow the table unnecessarily).
func (t *Table) findIndex(key *String) uint32 {
	mask := uint32(len(t.entries) - 1)
	idx := key.hash & mask
	var tombstone *uint32
	for {
		e := &t.entries[idx]
		switch {
		case e.Key == nil:
			if e.isTombstone() {
				if tombstone == nil {
					i := idx
					tombstone = &i
				}
			} else if tombstone != nil {
				return *tombstone
			} else {
				return idx
			}
		case e.Key == key:
			return idx
		}
		idx = (idx + 1) & mask
	}
}

func growCapacity(cap int) int {
	if cap < 8 {
		return 8
	}
	return cap * 2
}

func (t *Table) adjustCapacity(newCap int) {
	newEntries := make([]entry, newCap)
	for i := range newEntries {
		newEntries[i] = entry{Value: Nil{}}
	}

	oldEntries := t.entries
	t.entries = newEntries
	t.count = 0
	mask := uint32(newCap - 1)
	for _, e := range oldEntries {
		if e.Key == nil {
			continue
		}
		idx := e.Key.hash & mask
		for newEntries[idx].Key != nil {
			idx = (idx + 1) & mask
		}
		newEntries[idx] = e
		t.count++
	}
}

// hashString implements the FNV-1a hash, exactly as clox's table.c does,
// so that the algorithm's documented collision behavior matches the
// implementation it was ported from.
func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
