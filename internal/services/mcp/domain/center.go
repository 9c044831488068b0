package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/laneworks/laneworks/internal/core/lanes"
	centerdomain "github.com/laneworks/laneworks/internal/services/center/domain"
	centerservice "github.com/laneworks/laneworks/internal/services/center/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CenterReader is the registry surface the MCP tools read through.
type CenterReader interface {
	GetCenter(ctx context.Context, centerID string) (centerdomain.Center, error)
	GetCenterBySlug(ctx context.Context, slug string) (centerdomain.Center, error)
	GetLayout(ctx context.Context, centerID string) (lanes.LaneConfiguration, error)
	ListCenters(ctx context.Context, input centerservice.ListCentersInput) (centerservice.CenterPage, error)
}

// CenterSummary describes one registered center.
type CenterSummary struct {
	ID        string `json:"id" jsonschema:"center identifier"`
	Name      string `json:"name" jsonschema:"center display name"`
	Slug      string `json:"slug" jsonschema:"unique URL-safe center handle"`
	Timezone  string `json:"timezone" jsonschema:"IANA timezone of the center"`
	CreatedAt string `json:"created_at" jsonschema:"creation time in RFC 3339"`
	UpdatedAt string `json:"updated_at" jsonschema:"last update time in RFC 3339"`
}

// CenterLayoutInput represents the MCP tool input for a layout lookup.
type CenterLayoutInput struct {
	CenterID string `json:"center_id,omitempty" jsonschema:"center identifier; either center_id or slug is required"`
	Slug     string `json:"slug,omitempty" jsonschema:"center slug; either center_id or slug is required"`
}

// CenterLayoutResult represents the MCP tool output for a layout lookup.
type CenterLayoutResult struct {
	Center         CenterSummary      `json:"center" jsonschema:"the center owning the layout"`
	Ranges         []LaneRangeSummary `json:"ranges" jsonschema:"stored lane ranges ordered by start lane"`
	TotalPairCount int                `json:"total_pair_count" jsonschema:"total lane pairs across the layout"`
}

// ListCentersInput represents the MCP tool input for listing centers.
type ListCentersInput struct {
	Filter    string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter over name, slug, timezone, created_at"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum centers per page"`
	PageToken string `json:"page_token,omitempty" jsonschema:"opaque continuation token from a previous page"`
}

// ListCentersResult represents the MCP tool output for listing centers.
type ListCentersResult struct {
	Centers       []CenterSummary `json:"centers" jsonschema:"centers on this page"`
	NextPageToken string          `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
}

// CenterLayoutTool defines the MCP tool schema for layout lookups.
func CenterLayoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "center_layout",
		Description: "Reads the stored lane layout of a registered center",
	}
}

// ListCentersTool defines the MCP tool schema for listing centers.
func ListCentersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_centers",
		Description: "Lists registered centers with optional filtering",
	}
}

// CenterLayoutHandler resolves a center by ID or slug and returns its layout.
func CenterLayoutHandler(reader CenterReader) mcp.ToolHandlerFor[CenterLayoutInput, CenterLayoutResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CenterLayoutInput) (*mcp.CallToolResult, CenterLayoutResult, error) {
		centerID := strings.TrimSpace(input.CenterID)
		slug := strings.TrimSpace(input.Slug)
		if centerID == "" && slug == "" {
			return nil, CenterLayoutResult{}, fmt.Errorf("center_id or slug is required")
		}

		var center centerdomain.Center
		var err error
		if centerID != "" {
			center, err = reader.GetCenter(ctx, centerID)
		} else {
			center, err = reader.GetCenterBySlug(ctx, slug)
		}
		if err != nil {
			return nil, CenterLayoutResult{}, fmt.Errorf("resolve center: %w", err)
		}

		config, err := reader.GetLayout(ctx, center.ID)
		if err != nil {
			return nil, CenterLayoutResult{}, fmt.Errorf("load center layout: %w", err)
		}

		return nil, CenterLayoutResult{
			Center:         centerSummary(center),
			Ranges:         rangeSummaries(config.Ranges()),
			TotalPairCount: config.TotalPairCount(),
		}, nil
	}
}

// ListCentersHandler lists registered centers one page at a time.
func ListCentersHandler(reader CenterReader) mcp.ToolHandlerFor[ListCentersInput, ListCentersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListCentersInput) (*mcp.CallToolResult, ListCentersResult, error) {
		page, err := reader.ListCenters(ctx, centerservice.ListCentersInput{
			PageSize:  input.PageSize,
			PageToken: strings.TrimSpace(input.PageToken),
			Filter:    strings.TrimSpace(input.Filter),
		})
		if err != nil {
			return nil, ListCentersResult{}, fmt.Errorf("list centers: %w", err)
		}

		result := ListCentersResult{
			Centers:       make([]CenterSummary, 0, len(page.Centers)),
			NextPageToken: page.NextPageToken,
		}
		for _, center := range page.Centers {
			result.Centers = append(result.Centers, centerSummary(center))
		}
		return nil, result, nil
	}
}

func centerSummary(center centerdomain.Center) CenterSummary {
	return CenterSummary{
		ID:        center.ID,
		Name:      center.Name,
		Slug:      center.Slug,
		Timezone:  center.Timezone,
		CreatedAt: center.CreatedAt.Format(time.RFC3339),
		UpdatedAt: center.UpdatedAt.Format(time.RFC3339),
	}
}
