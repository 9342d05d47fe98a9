package locality

// HostTable assigns sequential ids to host names in first-seen order.
type HostTable struct {
	ids   map[string]int
	names []string
}

func NewHostTable() *HostTable {
	return &HostTable{ids: make(map[string]int)}
}

// ID returns the id of name, assigning the next one if name is new.
func (t *HostTable) ID(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := len(t.names)
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

func (t *HostTable) Lookup(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

func (t *HostTable) Name(id int) string {
	return t.names[id]
}

func (t *HostTable) Len() int {
	return len(t.names)
}
