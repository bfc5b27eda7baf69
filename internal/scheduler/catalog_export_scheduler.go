package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/shopline/shop-backend/pkg/logger"
)

// CatalogExporter writes the catalog workbook to a path.
type CatalogExporter interface {
	ExportFile(path string) error
}

// CatalogExportScheduler periodically snapshots the catalog to an XLSX file.
type CatalogExportScheduler struct {
	cron     *cron.Cron
	exporter CatalogExporter
	spec     string
	path     string
}

func NewCatalogExportScheduler(exporter CatalogExporter, spec, path string) *CatalogExportScheduler {
	return &CatalogExportScheduler{
		cron:     cron.New(),
		exporter: exporter,
		spec:     spec,
		path:     path,
	}
}

// Start registers the job with the standard 5-field cron spec, e.g. "0 3 * * *".
func (s *CatalogExportScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for catalog export", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog export scheduler started", map[string]interface{}{
		"spec": s.spec,
		"path": s.path,
	})
	return nil
}

func (s *CatalogExportScheduler) RunOnce() {
	logger.Info("Starting scheduled catalog export", map[string]interface{}{
		"path": s.path,
	})

	if err := s.exporter.ExportFile(s.path); err != nil {
		logger.Error("Scheduled catalog export failed", err, map[string]interface{}{
			"path": s.path,
		})
		return
	}

	logger.Info("Scheduled catalog export finished", map[string]interface{}{
		"path": s.path,
	})
}

// Stop waits for a running export to finish.
func (s *CatalogExportScheduler) Stop() {
	logger.Info("Stopping catalog export scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Catalog export scheduler stopped", nil)
}
