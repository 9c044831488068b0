package service

import (
	"fmt"

	"github.com/laneworks/laneworks/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
}

func registerLaneTools(registrar mcpRegistrationTarget) error {
	if err := registerTool(registrar, domain.ValidateLaneLayoutTool(), domain.ValidateLaneLayoutHandler()); err != nil {
		return err
	}
	return registerTool(registrar, domain.DeriveLanePairsTool(), domain.DeriveLanePairsHandler())
}

func registerCenterTools(registrar mcpRegistrationTarget, reader domain.CenterReader) error {
	if err := registerTool(registrar, domain.CenterLayoutTool(), domain.CenterLayoutHandler(reader)); err != nil {
		return err
	}
	return registerTool(registrar, domain.ListCentersTool(), domain.ListCentersHandler(reader))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}
