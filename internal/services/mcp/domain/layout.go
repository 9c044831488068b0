package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/laneworks/laneworks/internal/core/lanes"
	errsi18n "github.com/laneworks/laneworks/internal/platform/errors/i18n"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LaneRangeInput describes one proposed range of lanes.
type LaneRangeInput struct {
	StartLane   int    `json:"start_lane" jsonschema:"first lane number in the range"`
	EndLane     int    `json:"end_lane" jsonschema:"last lane number in the range"`
	PinFallType string `json:"pin_fall_type" jsonschema:"pin fall type code (FF or SP)"`
}

// LaneRangeSummary describes one validated range of lanes.
type LaneRangeSummary struct {
	StartLane   int    `json:"start_lane" jsonschema:"first lane number in the range"`
	EndLane     int    `json:"end_lane" jsonschema:"last lane number in the range"`
	PinFallType string `json:"pin_fall_type" jsonschema:"pin fall type code (FF or SP)"`
	PairCount   int    `json:"pair_count" jsonschema:"number of lane pairs in the range"`
}

// LanePair is one odd/even pair of adjacent lanes.
type LanePair struct {
	Odd  int `json:"odd" jsonschema:"odd lane number of the pair"`
	Even int `json:"even" jsonschema:"even lane number of the pair"`
}

// ValidateLaneLayoutInput represents the MCP tool input for layout validation.
type ValidateLaneLayoutInput struct {
	Ranges []LaneRangeInput `json:"ranges" jsonschema:"proposed lane ranges"`
	Locale string           `json:"locale,omitempty" jsonschema:"optional BCP 47 locale for the rejection message"`
}

// ValidateLaneLayoutResult represents the MCP tool output for layout validation.
type ValidateLaneLayoutResult struct {
	Valid          bool               `json:"valid" jsonschema:"whether the layout passes every rule"`
	Ranges         []LaneRangeSummary `json:"ranges,omitempty" jsonschema:"validated ranges ordered by start lane"`
	TotalPairCount int                `json:"total_pair_count,omitempty" jsonschema:"total lane pairs across the layout"`
	Code           string             `json:"code,omitempty" jsonschema:"rule code when the layout is rejected"`
	Message        string             `json:"message,omitempty" jsonschema:"localized rejection message"`
	Metadata       map[string]string  `json:"metadata,omitempty" jsonschema:"rule metadata when the layout is rejected"`
}

// DeriveLanePairsInput represents the MCP tool input for pair derivation.
type DeriveLanePairsInput struct {
	StartLane   int    `json:"start_lane" jsonschema:"first lane number in the range"`
	EndLane     int    `json:"end_lane" jsonschema:"last lane number in the range"`
	PinFallType string `json:"pin_fall_type" jsonschema:"pin fall type code (FF or SP)"`
}

// DeriveLanePairsResult represents the MCP tool output for pair derivation.
type DeriveLanePairsResult struct {
	Pairs     []LanePair `json:"pairs" jsonschema:"derived lane pairs in order"`
	PairCount int        `json:"pair_count" jsonschema:"number of derived pairs"`
}

// ValidateLaneLayoutTool defines the MCP tool schema for layout validation.
func ValidateLaneLayoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate_lane_layout",
		Description: "Validates a proposed lane layout against pairing rules",
	}
}

// DeriveLanePairsTool defines the MCP tool schema for pair derivation.
func DeriveLanePairsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "derive_lane_pairs",
		Description: "Derives the odd/even lane pairs for one lane range",
	}
}

// ValidateLaneLayoutHandler evaluates a proposed layout and reports a verdict.
// Rule rejections come back as structured results, not handler errors, so
// agents can inspect the code and metadata without parsing error strings.
func ValidateLaneLayoutHandler() mcp.ToolHandlerFor[ValidateLaneLayoutInput, ValidateLaneLayoutResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ValidateLaneLayoutInput) (*mcp.CallToolResult, ValidateLaneLayoutResult, error) {
		ranges := make([]lanes.LaneRange, 0, len(input.Ranges))
		for _, raw := range input.Ranges {
			pinFallType, err := parsePinFallCode(raw.PinFallType)
			if err != nil {
				return nil, ValidateLaneLayoutResult{}, err
			}
			laneRange, err := lanes.CreateLaneRange(raw.StartLane, raw.EndLane, pinFallType)
			if err != nil {
				return rejectionVerdict(input.Locale, err)
			}
			ranges = append(ranges, laneRange)
		}

		config, err := lanes.CreateLaneConfiguration(ranges)
		if err != nil {
			return rejectionVerdict(input.Locale, err)
		}

		return nil, ValidateLaneLayoutResult{
			Valid:          true,
			Ranges:         rangeSummaries(config.Ranges()),
			TotalPairCount: config.TotalPairCount(),
		}, nil
	}
}

// DeriveLanePairsHandler derives the lane pairs for a single valid range.
func DeriveLanePairsHandler() mcp.ToolHandlerFor[DeriveLanePairsInput, DeriveLanePairsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DeriveLanePairsInput) (*mcp.CallToolResult, DeriveLanePairsResult, error) {
		pinFallType, err := parsePinFallCode(input.PinFallType)
		if err != nil {
			return nil, DeriveLanePairsResult{}, err
		}
		laneRange, err := lanes.CreateLaneRange(input.StartLane, input.EndLane, pinFallType)
		if err != nil {
			return nil, DeriveLanePairsResult{}, fmt.Errorf("lane range is invalid: %w", err)
		}

		pairs := laneRange.LanePairs()
		result := DeriveLanePairsResult{
			Pairs:     make([]LanePair, 0, len(pairs)),
			PairCount: laneRange.PairCount(),
		}
		for _, pair := range pairs {
			result.Pairs = append(result.Pairs, LanePair{Odd: pair.Odd, Even: pair.Even})
		}
		return nil, result, nil
	}
}

// parsePinFallCode maps a raw code to a PinFallType. An empty code maps
// to unspecified so the engine reports the missing type as a rule
// rejection instead of a parse failure.
func parsePinFallCode(raw string) (lanes.PinFallType, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return lanes.PinFallTypeUnspecified, nil
	}
	pinFallType, err := lanes.ParsePinFallType(code)
	if err != nil {
		return lanes.PinFallTypeUnspecified, err
	}
	return pinFallType, nil
}

func rejectionVerdict(locale string, err error) (*mcp.CallToolResult, ValidateLaneLayoutResult, error) {
	var layoutErr *lanes.Error
	if !errors.As(err, &layoutErr) {
		return nil, ValidateLaneLayoutResult{}, err
	}
	catalog := errsi18n.GetCatalog(locale)
	return nil, ValidateLaneLayoutResult{
		Code:     string(layoutErr.Code),
		Message:  catalog.Format(string(layoutErr.Code), layoutErr.Metadata),
		Metadata: layoutErr.Metadata,
	}, nil
}

func rangeSummaries(ranges []lanes.LaneRange) []LaneRangeSummary {
	summaries := make([]LaneRangeSummary, 0, len(ranges))
	for _, laneRange := range ranges {
		summaries = append(summaries, LaneRangeSummary{
			StartLane:   laneRange.StartLane,
			EndLane:     laneRange.EndLane,
			PinFallType: laneRange.PinFallType.Code(),
			PairCount:   laneRange.PairCount(),
		})
	}
	return summaries
}
