package service

// Stats summarizes the catalog. ByCategory counts active records only.
type Stats struct {
	Total      int
	Active     int
	Online     int
	ByCategory map[Category]int
}
