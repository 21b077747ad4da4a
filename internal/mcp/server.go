package mcp

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/kneescan/pkg/config"
)

func NewMCPServer(cfg config.Config, logger *slog.Logger) *mcp.Server {
	service := NewService(cfg, logger)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cluster_points",
		Description: "Group points into density-based clusters (DBSCAN). Points in sparse regions are reported as noise. The radius is chosen automatically unless eps is given.",
	}, service.Cluster)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "estimate_eps",
		Description: "Suggest a DBSCAN neighborhood radius from the elbow of the sorted k-distance curve.",
	}, service.EstimateEps)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_knee",
		Description: "Find the knee (or elbow) of a monotonic curve, the point of maximum curvature.",
	}, service.FindKnee)

	return s
}
