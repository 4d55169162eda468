package mcpserver

import (
	"context"
	"errors"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"taskserver/internal/dispatcher"
	"taskserver/internal/registry"
)

func (s *Server) registerResources(srv *mcpsdk.Server) {
	for _, r := range registry.Resources() {
		srv.AddResource(&mcpsdk.Resource{
			URI:         r.URI,
			Name:        r.Name,
			Title:       r.Name,
			Description: r.Description,
			MIMEType:    r.MIMEType,
		}, s.handleResource)
	}
}

func (s *Server) handleResource(ctx context.Context, req *mcpsdk.ReadResourceRequest) (*mcpsdk.ReadResourceResult, error) {
	uri := ""
	if req != nil && req.Params != nil {
		uri = req.Params.URI
	}
	doc, err := s.dispatcher.ReadResource(ctx, uri)
	if err != nil {
		if errors.Is(err, dispatcher.ErrUnknownResource) {
			return nil, mcpsdk.ResourceNotFoundError(uri)
		}
		return nil, err
	}
	return &mcpsdk.ReadResourceResult{
		Contents: []*mcpsdk.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     doc,
		}},
	}, nil
}
