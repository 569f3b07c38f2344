// Package globals describes the standard shader-globals record.
//
// The record is shared by every layer of a group. Most fields carry
// per-lane data and are therefore varying; the pointers and the few
// per-batch fields at the front are uniform.
package globals

type (
	Field struct {
		Name    string
		Uniform bool
	}
)

// Fields in record layout order.
var Fields = []Field{
	{Name: "renderstate", Uniform: true},
	{Name: "tracedata", Uniform: true},
	{Name: "objdata", Uniform: true},
	{Name: "shadingcontext", Uniform: true},
	{Name: "renderer", Uniform: true},
	{Name: "Ci", Uniform: true},
	{Name: "raytype", Uniform: true},
	{Name: "pad0", Uniform: true},
	{Name: "pad1", Uniform: true},
	{Name: "pad2", Uniform: true},

	{Name: "P"},
	{Name: "dPdz"},
	{Name: "I"},
	{Name: "N"},
	{Name: "Ng"},
	{Name: "u"},
	{Name: "v"},
	{Name: "dPdu"},
	{Name: "dPdv"},
	{Name: "time"},
	{Name: "dtime"},
	{Name: "dPdtime"},
	{Name: "Ps"},
	{Name: "object2common"},
	{Name: "shader2common"},
	{Name: "surfacearea"},
	{Name: "flipHandedness"},
	{Name: "backfacing"},
}

// Index returns the field's position in the record, or -1.
func Index(name string) int {
	for i, f := range Fields {
		if f.Name == name {
			return i
		}
	}

	return -1
}

// IsUniformName reports whether the named global is uniform. Names
// outside the record are not uniform: the caller is expected to
// report them and fall back to the wide classification.
func IsUniformName(name string) bool {
	if i := Index(name); i >= 0 {
		return Fields[i].Uniform
	}

	return false
}
