package dto

type VisitorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ListVisitorResponse struct {
	Visitors []VisitorResponse `json:"visitors"`
}
