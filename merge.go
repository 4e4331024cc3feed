package wrangle

// MergeTool combines the value a tool already has (nil when the tool is new) with the value a later
// layer provides for the same name.
//
// Disabling is absorbing within a single merge: a partial record can not cancel a disable, and a
// disable always replaces whatever came before. Any value arriving after a disable is taken as a full
// redefinition. In every other case the incoming record is overlaid key by key onto the existing one.
func MergeTool(existing *ToolValue, incoming ToolValue) ToolValue {
	switch {
	case existing == nil:
		return incoming
	case existing.Disabled:
		return incoming
	case incoming.Disabled:
		return incoming
	}
	return ToolValue{Options: existing.Options.Overlay(incoming.Options)}
}
