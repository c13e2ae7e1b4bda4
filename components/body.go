package components

// Body holds physical properties of an entity.
type Body struct {
	Radius float64 // fixed at creation
}
