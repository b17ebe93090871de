package dto

type LocationResponse struct {
	Name     string       `json:"name"`
	Country  string       `json:"country"`
	Lat      float64      `json:"lat"`
	Lng      float64      `json:"lng"`
	Source   string       `json:"source"`
	Visitors []string     `json:"visitors"`
	Fill     FillResponse `json:"fill"`
}

type ListLocationResponse struct {
	Mode      string             `json:"mode"`
	Locations []LocationResponse `json:"locations"`
}

type SearchResultResponse struct {
	Name     string   `json:"name"`
	Country  string   `json:"country"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Visitors []string `json:"visitors"`
	Colors   []string `json:"colors"`
}

// SearchResponse hides the results panel when nothing matched.
type SearchResponse struct {
	Query   string                 `json:"query"`
	Hidden  bool                   `json:"hidden"`
	Results []SearchResultResponse `json:"results"`
}
