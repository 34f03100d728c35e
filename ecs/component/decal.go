package component

// Decal tracks a decal's texture while it resolves.
type Decal struct {
	Texture  string
	Values   map[string]any
	Resolved bool
	Err      error
}

var DecalComponent = NewComponent[Decal]("decal")
