package domain

// Route is a driven route polyline, attributed to the visitors who drove it.
type Route struct {
	Name     string
	Visitors []string
	Points   []Point
}
