package dto

import "travelmap-service/internal/domain"

type FillResponse struct {
	Kind      string  `json:"kind"`
	Color     string  `json:"color,omitempty"`
	PatternID string  `json:"pattern_id,omitempty"`
	Opacity   float64 `json:"opacity"`
	CSS       string  `json:"css"`
}

func Fill(f domain.FillStyle) FillResponse {
	return FillResponse{
		Kind:      string(f.Kind),
		Color:     f.Color,
		PatternID: f.PatternID,
		Opacity:   f.Opacity,
		CSS:       f.CSS(),
	}
}
