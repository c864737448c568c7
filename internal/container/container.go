package container

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"wconcept/bestcrawl/internal/category"
	"wconcept/bestcrawl/internal/client"
	"wconcept/bestcrawl/internal/config"
	"wconcept/bestcrawl/internal/proxy"
	"wconcept/bestcrawl/internal/render"
	"wconcept/bestcrawl/internal/report"
	"wconcept/bestcrawl/internal/service"
	"wconcept/bestcrawl/internal/snapshot"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Client   client.WConceptClient
	Resolver *category.Resolver

	Service  *service.Service
	Reporter *service.Reporter
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container, err := NewReporting(cfg)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Output.Location()
	if err != nil {
		return nil, err
	}

	proxySupplier := proxy.NewProxySupplier(context.Background(), cfg.WConcept.Proxies, cfg.WConcept.BestPageURL)
	if len(cfg.WConcept.Proxies) > 0 && proxySupplier.Len() == 0 {
		return nil, fmt.Errorf("failed to initialize proxy supplier: none of %d proxies is reachable", len(cfg.WConcept.Proxies))
	}

	wconceptClient := client.NewWConceptClient(cfg.WConcept, proxySupplier)
	container.Client = wconceptClient

	resolver := category.NewResolver(
		wconceptClient,
		category.NewCache(cfg.Categories.CacheFile),
		client.DefaultSession(cfg.WConcept),
		cfg.Export.SkipCategoryUpdate,
	)
	container.Resolver = resolver

	container.Service = service.NewService(
		resolver,
		wconceptClient,
		snapshot.NewWriter(cfg.Output.Dir, cfg.Output.FilePrefix),
		service.ExportOptions{
			Brands:   cfg.Brands,
			PageSize: cfg.Export.PageSize,
			MaxPages: cfg.Export.MaxPages,
			TestMode: cfg.Export.TestMode,
			Location: loc,
		},
	)

	return container, nil
}

// NewReporting wires only what report generation needs; nothing touches the
// network.
func NewReporting(cfg *config.Config) (*Container, error) {
	loc, err := cfg.Output.Location()
	if err != nil {
		return nil, err
	}

	return &Container{
		Config: cfg,
		Reporter: service.NewReporter(
			report.NewAggregator(cfg.Brands),
			render.New(render.Options{
				Title:       cfg.Report.Title,
				Source:      cfg.Report.Source,
				OutputRoot:  cfg.Output.Dir,
				LinkBaseURL: cfg.Report.LinkBaseURL,
				Location:    loc,
			}),
			cfg.Output.Dir,
			cfg.Output.FilePrefix,
		),
	}, nil
}

// Run executes one export
func (c *Container) Run(ctx context.Context) (*service.ExportResult, error) {
	return c.Service.Export(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Container shut down")
	return nil
}
