package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/ctxlog"
	"github.com/specialistvlad/pvgridgo/internal/plant"
	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

// Run loads every plant, resolves each one against the site and prints the
// report. A plant that fails does not stop the others; all failures are
// returned joined once the report is written.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	raw, err := a.loadPlants(ctx)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		a.logger.Warn("No plants found, nothing to resolve.", "paths", a.config.Paths)
	}

	report := &Report{Site: newSiteReport(a.site), Plants: []PlantReport{}}
	var errs []error
	for _, rp := range raw {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger := a.logger.With("plant", rp.Name, "source", rp.Source)
		p, err := a.resolve(ctx, rp)
		if err != nil {
			logger.Error("Plant resolution failed.", "kind", pverr.KindOf(err), "error", err)
			a.metrics.ObserveFailure(err)
			report.Failed = append(report.Failed, FailureReport{
				Name:   rp.Name,
				Source: rp.Source,
				Kind:   pverr.KindOf(err),
				Error:  err.Error(),
			})
			errs = append(errs, fmt.Errorf("plant %q (%s): %w", rp.Name, rp.Source, err))
			continue
		}

		logger.Debug("Plant resolved.", "capacity_kw", p.SystemCapacityKW(), "tilt", p.PanelTiltAngle(), "module_type", p.ModuleType())
		a.metrics.ObserveResolved(p.SystemCapacityKW(), p.FootprintArea())
		report.Plants = append(report.Plants, newPlantReport(rp, p))
	}

	if err := writeReport(a.outW, report); err != nil {
		return err
	}

	if a.config.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
		a.logger.Debug("Metrics written.", "path", a.config.MetricsFile)
	}

	a.logger.Info("Run finished.", "resolved", len(report.Plants), "failed", len(report.Failed))
	return errors.Join(errs...)
}

// resolve validates one raw plant definition and pushes it into a fresh
// engine record.
func (a *App) resolve(ctx context.Context, rp *config.RawPlant) (*plant.Plant, error) {
	cfg, err := config.FromMap(rp.Values)
	if err != nil {
		return nil, err
	}
	return plant.New(ctx, a.site, cfg, a.newModel(), plant.WithCatalog(a.catalog))
}
