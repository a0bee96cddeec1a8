package models

// CatalogItem is a reference course used for autocomplete.
type CatalogItem struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Credits float64 `json:"credits"`
}
