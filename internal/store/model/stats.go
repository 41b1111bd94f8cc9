package model

// CatalogStats summarises the catalog and the projects.
type CatalogStats struct {
	TotalMaterials int
	// MaterialsByCategory is keyed by category id.
	MaterialsByCategory map[string]int
	// OutOfStock counts materials with a stock of zero or less.
	OutOfStock     int
	TotalProjects  int
	BookedProjects int
}
