package simulator

import (
	"callcenter-sim/assignment"
	"callcenter-sim/config"
	"callcenter-sim/models"
	"callcenter-sim/roster"
	"callcenter-sim/writer"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Generate is a full run: it builds the rosters and assignment history,
// writes them as seed tables under seedDir, then simulates the horizon into
// day partitions under outputDir.
func Generate(ctx context.Context, runID string, cfg config.SimulationConfig, outputDir, seedDir string, log logrus.FieldLogger) (models.RunSummary, error) {
	started := time.Now()
	seeds := cfg.Seeds()

	agents := roster.Agents(cfg.AgentsCount, seeds.Agents)
	managers := roster.Managers(cfg.ManagersCount, seeds.Managers)
	customers := roster.Customers(cfg.CustomersCount, seeds.CustomerNames, seeds.CustomerPrograms,
		cfg.Programs.Names(), cfg.GlobalStartDate)
	segments := assignment.Distribute(agents, managers, cfg.GlobalStartDate, cfg.GlobalEndDate,
		cfg.AvgReassignments, seeds.Assignments)

	summary := models.RunSummary{
		RunID:              runID,
		Start:              cfg.GlobalStartDate,
		End:                cfg.GlobalEndDate,
		Agents:             len(agents),
		Managers:           len(managers),
		Customers:          len(customers),
		AssignmentSegments: len(segments),
	}

	if err := writeSeeds(seedDir, agents, managers, customers, segments); err != nil {
		return summary, err
	}
	log.WithFields(logrus.Fields{
		"seed_dir":  seedDir,
		"agents":    len(agents),
		"managers":  len(managers),
		"customers": len(customers),
		"segments":  len(segments),
	}).Info("Wrote seed tables")

	sink := writer.NewPartitioned(outputDir, cfg.OutputFormats)
	stats, err := New(cfg, agents, customers, sink, log).Run(ctx)

	summary.Days = stats.Days
	summary.Calls = stats.Calls
	summary.CRM = stats.CRM
	summary.Surveys = stats.Surveys
	summary.CallbacksScheduled = stats.CallbacksScheduled
	summary.CallbacksCompleted = stats.CallbacksCompleted
	summary.CallbacksDropped = stats.CallbacksDropped
	summary.Elapsed = time.Since(started)
	return summary, err
}

func writeSeeds(dir string, agents []models.Agent, managers []models.Manager, customers []models.Customer, segments []models.AssignmentSegment) error {
	if err := writer.WriteSeed(dir, writer.TableAgents, agents); err != nil {
		return err
	}
	if err := writer.WriteSeed(dir, writer.TableManagers, managers); err != nil {
		return err
	}
	if err := writer.WriteSeed(dir, writer.TableCustomers, customers); err != nil {
		return err
	}
	return writer.WriteSeed(dir, writer.TableAgentAssignments, segments)
}
