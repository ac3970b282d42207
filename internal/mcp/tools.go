package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/dualscreen/internal/hinge"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

func (s *Server) handleGetSpanningState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetSpanningStateInput) (*mcpsdk.CallToolResult, GetSpanningStateOutput, error) {
	if s.source == nil {
		return nil, GetSpanningStateOutput{}, fmt.Errorf("no daemon connection configured")
	}
	ev, err := s.source.GetState()
	if err != nil {
		return nil, GetSpanningStateOutput{}, fmt.Errorf("failed to get spanning state: %w", err)
	}
	return nil, GetSpanningStateOutput{
		IsSpanning:  ev.IsSpanning,
		WindowRects: nonNilRects(ev.WindowRects),
		Orientation: string(ev.Orientation),
	}, nil
}

func (s *Server) handleGetConstants(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetConstantsInput) (*mcpsdk.CallToolResult, GetConstantsOutput, error) {
	if s.source == nil {
		return nil, GetConstantsOutput{}, fmt.Errorf("no daemon connection configured")
	}
	consts, err := s.source.GetConstants()
	if err != nil {
		return nil, GetConstantsOutput{}, fmt.Errorf("failed to get constants: %w", err)
	}
	return nil, GetConstantsOutput{
		HingeWidth:         consts.HingeWidth,
		IsDualScreenDevice: consts.IsDualScreenDevice,
	}, nil
}

func (s *Server) handleComputeWindowRegions(_ context.Context, _ *mcpsdk.CallToolRequest, args ComputeWindowRegionsInput) (*mcpsdk.CallToolResult, ComputeWindowRegionsOutput, error) {
	out, err := ComputeWindowRegions(args)
	return nil, out, err
}

// ComputeWindowRegions runs the spanning computation on explicit inputs.
func ComputeWindowRegions(args ComputeWindowRegionsInput) (ComputeWindowRegionsOutput, error) {
	rot := hinge.Rotation(args.Rotation)
	if !rot.Valid() {
		return ComputeWindowRegionsOutput{}, fmt.Errorf("rotation %d: %w", args.Rotation, hinge.ErrInvalidRotation)
	}
	if args.StatusBarHeight < 0 || args.NavigationBarHeight < 0 {
		return ComputeWindowRegionsOutput{}, fmt.Errorf("bar heights must be >= 0")
	}
	if args.Density < 0 {
		return ComputeWindowRegionsOutput{}, fmt.Errorf("density must be >= 0")
	}

	var hingeRect hinge.Rect
	if args.Hinge != nil {
		hingeRect = *args.Hinge
	}

	state := hinge.ComputeSpanning(args.Window, hingeRect, rot, args.StatusBarHeight, args.NavigationBarHeight)
	ev, err := spanning.NewEvent(state, args.Density)
	if err != nil {
		return ComputeWindowRegionsOutput{}, err
	}
	return ComputeWindowRegionsOutput{
		IsSpanning:  ev.IsSpanning,
		Regions:     state.WindowRects,
		WindowRects: nonNilRects(ev.WindowRects),
		Orientation: string(ev.Orientation),
	}, nil
}

func nonNilRects(rects []spanning.WindowRect) []spanning.WindowRect {
	if rects == nil {
		return []spanning.WindowRect{}
	}
	return rects
}
