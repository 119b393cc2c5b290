package nbt

// Value is one node of the decoded tag tree. The dynamic type is one of:
// int8, int16, int32, int64, float32, float64, []byte, string, List,
// *Compound, []int32, []int64. A decoded tree is immutable by convention;
// the root is owned by the caller of Decode.
type Value any

// List is a homogeneous sequence of unnamed values sharing one element tag.
type List struct {
	Elem  TagID
	Items []Value
}

// Compound is a map of named values preserving insertion order.
type Compound struct {
	names  []string
	values map[string]Value
}

func NewCompound() *Compound {
	return &Compound{values: make(map[string]Value)}
}

// Set stores a value under name. A repeated name overwrites in place and
// keeps the original insertion position.
func (c *Compound) Set(name string, v Value) {
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = v
}

func (c *Compound) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns the key names in insertion order.
func (c *Compound) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Compound) Len() int {
	return len(c.names)
}
