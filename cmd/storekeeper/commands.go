package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	wiring "github.com/apridachin/girya-storekeeper/internal/app"
	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/platform/browser"
	"github.com/apridachin/girya-storekeeper/internal/platform/logger"
	"github.com/apridachin/girya-storekeeper/internal/task"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

// TokenEnvVar supplies the warehouse token when --token is not given.
const TokenEnvVar = "STOREKEEPER_WAREHOUSE_TOKEN"

// environment holds the process-level hooks the commands depend on.
type environment struct {
	loadConfig     func() (*config.Config, error)
	wire           func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*wiring.Components, error)
	installBrowser func() error
	pollInterval   time.Duration
}

func defaultEnvironment() environment {
	return environment{
		loadConfig: config.Load,
		wire: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*wiring.Components, error) {
			return wiring.New(ctx, cfg, logger, wiring.Overrides{})
		},
		installBrowser: browser.Install,
		pollInterval:   time.Second,
	}
}

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "token",
		Usage:    "warehouse API token",
		Sources:  cli.EnvVars(TokenEnvVar),
		Required: true,
	}
}

func newRootCommand(env environment) *cli.Command {
	return &cli.Command{
		Name:  "storekeeper",
		Usage: "compare warehouse stock with competitor prices",
		Commands: []*cli.Command{
			{
				Name:   "groups",
				Usage:  "list warehouse product groups",
				Flags:  []cli.Flag{tokenFlag()},
				Action: env.groupsAction,
			},
			{
				Name:  "compare",
				Usage: "search the competitor site for every stock item of a product group",
				Flags: []cli.Flag{
					tokenFlag(),
					&cli.StringFlag{
						Name:     "group",
						Usage:    "product group ID",
						Required: true,
					},
				},
				Action: env.compareAction,
			},
			{
				Name:   "partners",
				Usage:  "look the configured partner product group up in the partner catalog",
				Flags:  []cli.Flag{tokenFlag()},
				Action: env.partnersAction,
			},
			{
				Name:  "install-browser",
				Usage: "download the Chromium build used for competitor searches",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := env.installBrowser(); err != nil {
						return fmt.Errorf("failed to install browser: %w", err)
					}
					_, err := fmt.Fprintln(cmd.Root().Writer, "browser installed")
					return err
				},
			},
		},
	}
}

// start loads configuration and wires the components. Logs go to stderr so
// stdout carries only the table.
func (env environment) start(ctx context.Context, cmd *cli.Command) (*wiring.Components, error) {
	cfg, err := env.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	log := logger.New(cmd.Root().ErrWriter, level)

	components, err := env.wire(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (env environment) groupsAction(ctx context.Context, cmd *cli.Command) error {
	components, err := env.start(ctx, cmd)
	if err != nil {
		return err
	}
	defer components.Close()

	groups, err := components.Searches.ProductGroups(ctx, cmd.String("token"))
	if err != nil {
		return fmt.Errorf("failed to list product groups: %w", err)
	}

	return renderGroups(cmd.Root().Writer, groups)
}

func (env environment) compareAction(ctx context.Context, cmd *cli.Command) error {
	components, err := env.start(ctx, cmd)
	if err != nil {
		return err
	}
	defer components.Close()

	if err := components.Searcher.EnsureReady(ctx); err != nil {
		return fmt.Errorf("failed to start browser, try install-browser: %w", err)
	}

	token := cmd.String("token")
	id, err := components.Searches.SubmitSearch(ctx, token, token, cmd.String("group"))
	if err != nil {
		return fmt.Errorf("failed to start comparison: %w", err)
	}

	record, err := waitForRecord(ctx, env.pollInterval, func() task.Record {
		return components.Searches.GetStatus(ctx, id, token)
	})
	if err != nil {
		return err
	}
	return renderOutcome(cmd.Root().Writer, "Competitor", "comparison", id, record)
}

func (env environment) partnersAction(ctx context.Context, cmd *cli.Command) error {
	components, err := env.start(ctx, cmd)
	if err != nil {
		return err
	}
	defer components.Close()

	if components.Partners == nil {
		return errors.New("partner lookup is not configured: set partners.base_url and warehouse.partner_group_id")
	}

	token := cmd.String("token")
	id, err := components.Partners.SubmitSearch(ctx, token, token)
	if err != nil {
		return fmt.Errorf("failed to start partner lookup: %w", err)
	}

	record, err := waitForRecord(ctx, env.pollInterval, func() task.Record {
		return components.Partners.GetStatus(ctx, id, token)
	})
	if err != nil {
		return err
	}
	return renderOutcome(cmd.Root().Writer, "Partner", "partner lookup", id, record)
}

// renderOutcome prints a completed record as a table and turns any other
// status into an error naming what ran.
func renderOutcome(w io.Writer, source, what, id string, record task.Record) error {
	switch record.Status {
	case task.StatusCompleted:
		result, ok := record.Result.(*domain.StockSearchResult)
		if !ok {
			return fmt.Errorf("unexpected result type %T", record.Result)
		}
		return renderStockRows(w, source, result.Rows)
	case task.StatusFailed:
		msg := "unknown error"
		if record.Error != nil {
			msg = *record.Error
		}
		return fmt.Errorf("%s failed: %s", what, msg)
	default:
		return fmt.Errorf("%s %s disappeared", what, id)
	}
}

// waitForRecord polls until observe returns a record that is no longer
// running.
func waitForRecord(ctx context.Context, interval time.Duration, observe func() task.Record) (task.Record, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		record := observe()
		if record.Status != task.StatusRunning {
			return record, nil
		}
		select {
		case <-ctx.Done():
			return task.Record{}, errors.Join(errors.New("interrupted while waiting for results"), ctx.Err())
		case <-ticker.C:
		}
	}
}

func renderGroups(w io.Writer, groups []domain.ProductFolder) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Archived")
	for _, g := range groups {
		if err := table.Append(g.ID, g.Name, fmt.Sprint(g.Archived)); err != nil {
			return err
		}
	}
	return table.Render()
}

// renderStockRows prints rows with the match columns titled after source.
func renderStockRows(w io.Writer, source string, rows []domain.StockRow) error {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Stock", "Price", source, source+" Price", "URL")
	for _, r := range rows {
		if err := table.Append(
			r.Name,
			fmt.Sprintf("%g", r.Stock),
			fmt.Sprintf("%.2f", r.Price/100),
			deref(r.FoundName),
			deref(r.FoundPrice),
			deref(r.FoundURL),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
