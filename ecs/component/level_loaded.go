package component

// LevelLoaded marks a level root once every layer has been realized.
type LevelLoaded struct {
	// LoadID tells apart successive loads of the same level.
	LoadID string
	Layers int
}

var LevelLoadedComponent = NewComponent[LevelLoaded]("level_loaded")
