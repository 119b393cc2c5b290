package nbt

// TagID identifies one node kind in the binary value tree.
type TagID byte

// Tag ids from the wire format. TagEnd is the compound terminator, not a
// value kind of its own.
const (
	TagEnd       TagID = 0
	TagByte      TagID = 1
	TagShort     TagID = 2
	TagInt       TagID = 3
	TagLong      TagID = 4
	TagFloat     TagID = 5
	TagDouble    TagID = 6
	TagByteArray TagID = 7
	TagString    TagID = 8
	TagList      TagID = 9
	TagCompound  TagID = 10
	TagIntArray  TagID = 11
	TagLongArray TagID = 12
)

var tagNames = map[TagID]string{
	TagEnd:       "end",
	TagByte:      "byte",
	TagShort:     "short",
	TagInt:       "int",
	TagLong:      "long",
	TagFloat:     "float",
	TagDouble:    "double",
	TagByteArray: "byte_array",
	TagString:    "string",
	TagList:      "list",
	TagCompound:  "compound",
	TagIntArray:  "int_array",
	TagLongArray: "long_array",
}

func (id TagID) String() string {
	if name, ok := tagNames[id]; ok {
		return name
	}
	return "unknown"
}

func (id TagID) valid() bool {
	return id >= TagByte && id <= TagLongArray
}
