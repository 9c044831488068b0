package server

import (
	"time"

	"github.com/laneworks/laneworks/internal/core/lanes"
	"github.com/laneworks/laneworks/internal/services/center/domain"
)

type createCenterRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Timezone string `json:"timezone"`
}

type renameCenterRequest struct {
	Name string `json:"name"`
}

type configureLayoutRequest struct {
	Ranges []rangeRequest `json:"ranges"`
}

type rangeRequest struct {
	StartLane   int    `json:"start_lane"`
	EndLane     int    `json:"end_lane"`
	PinFallType string `json:"pin_fall_type"`
}

type centerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Timezone  string          `json:"timezone"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Layout    *layoutResponse `json:"layout,omitempty"`
}

type listCentersResponse struct {
	Centers       []centerResponse `json:"centers"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

type layoutResponse struct {
	Ranges         []rangeResponse `json:"ranges"`
	TotalPairCount int             `json:"total_pair_count"`
}

type rangeResponse struct {
	StartLane   int    `json:"start_lane"`
	EndLane     int    `json:"end_lane"`
	PinFallType string `json:"pin_fall_type"`
	PairCount   int    `json:"pair_count"`
}

type lanePairsResponse struct {
	Pairs          []lanePairResponse `json:"pairs"`
	TotalPairCount int                `json:"total_pair_count"`
}

type lanePairResponse struct {
	Odd  int `json:"odd"`
	Even int `json:"even"`
}

func centerPayload(center domain.Center) centerResponse {
	out := centerResponse{
		ID:        center.ID,
		Name:      center.Name,
		Slug:      center.Slug,
		Timezone:  center.Timezone,
		CreatedAt: center.CreatedAt,
		UpdatedAt: center.UpdatedAt,
	}
	if center.Layout != nil {
		layout := layoutPayload(*center.Layout)
		out.Layout = &layout
	}
	return out
}

func layoutPayload(config lanes.LaneConfiguration) layoutResponse {
	ranges := config.Ranges()
	out := layoutResponse{
		Ranges:         make([]rangeResponse, 0, len(ranges)),
		TotalPairCount: config.TotalPairCount(),
	}
	for _, r := range ranges {
		out.Ranges = append(out.Ranges, rangeResponse{
			StartLane:   r.StartLane,
			EndLane:     r.EndLane,
			PinFallType: r.PinFallType.Code(),
			PairCount:   r.PairCount(),
		})
	}
	return out
}

func pairsPayload(pairs []lanes.LanePair) lanePairsResponse {
	out := lanePairsResponse{
		Pairs:          make([]lanePairResponse, 0, len(pairs)),
		TotalPairCount: len(pairs),
	}
	for _, pair := range pairs {
		out.Pairs = append(out.Pairs, lanePairResponse{Odd: pair.Odd, Even: pair.Even})
	}
	return out
}
