package udev

// Entry is a single (name, value) pair carrying an ordinal used by
// uevent parsing to mark provenance (e.g. "this property was loaded
// from the persisted device record, not from this session's uevent").
type Entry struct {
	Name    string
	Value   string
	Ordinal int
}

// List is an ordered sequence of Entry values. In unique mode,
// inserting a duplicate name replaces the existing entry's value in
// place, preserving its original position; in non-unique mode,
// duplicates are appended. A cursor supports the legacy "get next"
// iteration idiom alongside ordinary forward iteration.
type List struct {
	entries []*Entry
	unique  bool
	cursor  int
}

// NewList returns an empty List. When unique is true, Add enforces
// at most one entry per name.
func NewList(unique bool) *List {
	return &List{unique: unique}
}

// Unique reports whether the list enforces name uniqueness.
func (l *List) Unique() bool { return l.unique }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Add inserts (name, value). In unique mode, an existing entry with
// the same name has its value replaced and is returned; otherwise a
// new entry is appended. The returned Entry's Ordinal is 0 and may be
// set by the caller.
func (l *List) Add(name, value string) *Entry {
	if l.unique {
		if e := l.ByName(name); e != nil {
			e.Value = value
			return e
		}
	}
	e := &Entry{Name: name, Value: value}
	l.entries = append(l.entries, e)
	return e
}

// Remove deletes every entry named name.
func (l *List) Remove(name string) {
	out := l.entries[:0]
	for _, e := range l.entries {
		if e.Name != name {
			out = append(out, e)
		}
	}
	l.entries = out
	if l.cursor > len(l.entries) {
		l.cursor = len(l.entries)
	}
}

// ByName returns the first entry named name, or nil.
func (l *List) ByName(name string) *Entry {
	for _, e := range l.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Front returns the first entry, or nil if the list is empty, and
// resets the cursor to the start.
func (l *List) Front() *Entry {
	if len(l.entries) == 0 {
		l.cursor = 0
		return nil
	}
	l.cursor = 1
	return l.entries[0]
}

// Next advances the cursor and returns the entry it now points at, or
// nil once the list is exhausted. Mirrors the legacy "get next" C idiom.
func (l *List) Next() *Entry {
	if l.cursor >= len(l.entries) {
		return nil
	}
	e := l.entries[l.cursor]
	l.cursor++
	return e
}

// Iter returns a snapshot slice of the list's entries in order.
func (l *List) Iter() []*Entry {
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the list and resets the cursor.
func (l *List) Clear() {
	l.entries = nil
	l.cursor = 0
}
