package handler

import (
	"unionhub/internal/resolution/models"
)

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// ResolutionResponse adds the derived tally figures to a resolution.
type ResolutionResponse struct {
	*models.Resolution
	VotesReceived int     `json:"votes_received"`
	PercentageFor float64 `json:"percentage_for"`
}

func toResolutionResponse(r *models.Resolution) ResolutionResponse {
	return ResolutionResponse{
		Resolution:    r,
		VotesReceived: r.VotesReceived(),
		PercentageFor: r.PercentageFor(),
	}
}
