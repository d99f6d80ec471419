// Package nodes defines the raw parse tree produced by the grammar and its
// canonical text form.
//
// Node layouts and field order follow PostgreSQL's raw parse nodes, so a
// dump from NodeToString can be compared byte-for-byte with nodeToString()
// output of a reference parser.
package nodes

// Node is the interface implemented by all parse tree nodes.
type Node interface {
	// Tag returns the NodeTag for this node type.
	Tag() NodeTag
}

// Oid represents a PostgreSQL object identifier. Raw parse trees never
// resolve one, so every Oid field is InvalidOid.
type Oid uint32

// InvalidOid is the zero object identifier.
const InvalidOid Oid = 0

// List is an ordered sequence of nodes. A nil or empty List is NIL.
type List struct {
	Items []Node
}

func (l *List) Tag() NodeTag { return T_List }

// Len returns the number of items in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Append adds n to the list and returns the list, allocating when l is nil.
func (l *List) Append(n ...Node) *List {
	if l == nil {
		l = &List{}
	}
	l.Items = append(l.Items, n...)
	return l
}

// MakeList returns a list holding items.
func MakeList(items ...Node) *List {
	return &List{Items: items}
}

// String is a string value node.
type String struct {
	Sval string
}

func (s *String) Tag() NodeTag { return T_String }

// Integer is an integer value node.
type Integer struct {
	Ival int64
}

func (i *Integer) Tag() NodeTag { return T_Integer }

// Float is a numeric value node. The text is kept as written so no
// precision is lost.
type Float struct {
	Fval string
}

func (f *Float) Tag() NodeTag { return T_Float }

// Boolean is a boolean value node.
type Boolean struct {
	Boolval bool
}

func (b *Boolean) Tag() NodeTag { return T_Boolean }

// MakeString returns a String value node.
func MakeString(s string) *String { return &String{Sval: s} }

// StringList returns a list of String value nodes.
func StringList(names ...string) *List {
	l := &List{Items: make([]Node, len(names))}
	for i, n := range names {
		l.Items[i] = MakeString(n)
	}
	return l
}
