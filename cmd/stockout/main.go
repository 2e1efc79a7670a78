package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/app"
	"github.com/andresuchdata/qcomm-stockout/internal/config"
	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/pkg/logger"
	"github.com/urfave/cli/v2"
)

type ctxKey struct{}

func pairFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "platform", Usage: "Platform name (blinkit, zepto, instamart)", Required: true},
		&cli.StringFlag{Name: "brand", Usage: "Brand name", Required: true},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stockout",
		Usage: "Forecast stockout risk for quick-commerce brands",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Database connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:  "now",
				Usage: "Fixed forecast anchor (RFC3339 or YYYY-MM-DD); defaults to the current time",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: initService,
		After:  closeService,
		Commands: []*cli.Command{
			{
				Name:   "risk",
				Usage:  "Ranked stockout risk per product",
				Flags:  pairFlags(),
				Action: runRisk,
			},
			{
				Name:   "insights",
				Usage:  "Risk records with rollup KPIs",
				Flags:  pairFlags(),
				Action: runInsights,
			},
			{
				Name:  "facilities",
				Usage: "Per-facility stock breakdown",
				Flags: append(pairFlags(), &cli.StringFlag{
					Name:  "name",
					Usage: "Case-insensitive product name filter",
				}),
				Action: runFacilities,
			},
			{
				Name:  "dashboard",
				Usage: "Insights for several platform:brand pairs at once",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "pair",
						Usage:    "platform:brand, repeatable",
						Required: true,
					},
				},
				Action: runDashboard,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initService(c *cli.Context) error {
	if c.Args().Len() == 0 || c.Args().First() == "help" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Configure(os.Stderr, "console", c.String("log-level"))

	if url := c.String("db-url"); url != "" {
		cfg.Database.URL = url
	}

	var clock func() time.Time
	if raw := c.String("now"); raw != "" {
		now, err := parseNow(raw)
		if err != nil {
			return err
		}
		clock = func() time.Time { return now }
	}

	a, err := app.New(cfg, clock)
	if err != nil {
		return err
	}
	c.Context = context.WithValue(c.Context, ctxKey{}, a)
	return nil
}

func closeService(c *cli.Context) error {
	if a, ok := c.Context.Value(ctxKey{}).(*app.App); ok && a != nil {
		a.Close()
	}
	return nil
}

func fromContext(c *cli.Context) (*app.App, error) {
	a, ok := c.Context.Value(ctxKey{}).(*app.App)
	if !ok || a == nil {
		return nil, fmt.Errorf("stockout service not initialized")
	}
	return a, nil
}

func parseNow(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now %q: want RFC3339 or YYYY-MM-DD", raw)
}

func runRisk(c *cli.Context) error {
	a, err := fromContext(c)
	if err != nil {
		return err
	}
	records, err := a.Service.ComputeStockoutRisk(c.Context, c.String("platform"), c.String("brand"))
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, records)
}

func runInsights(c *cli.Context) error {
	a, err := fromContext(c)
	if err != nil {
		return err
	}
	insights, err := a.Service.ComputeNuclearInsights(c.Context, c.String("platform"), c.String("brand"))
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, insights)
}

func runFacilities(c *cli.Context) error {
	a, err := fromContext(c)
	if err != nil {
		return err
	}
	reports, err := a.Service.ComputeFacilityBreakdown(c.Context, c.String("platform"), c.String("brand"), c.String("name"))
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, reports)
}

type dashboardLine struct {
	Pair     string                  `json:"pair"`
	Insights *domain.NuclearInsights `json:"insights,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

func runDashboard(c *cli.Context) error {
	a, err := fromContext(c)
	if err != nil {
		return err
	}

	pairs := make([]domain.Pair, 0, len(c.StringSlice("pair")))
	for _, raw := range c.StringSlice("pair") {
		p, err := domain.ParsePair(raw)
		if err != nil {
			return err
		}
		pairs = append(pairs, p)
	}

	results := a.Service.ComputeDashboard(c.Context, pairs)
	lines := make([]dashboardLine, len(results))
	for i, r := range results {
		lines[i] = dashboardLine{Pair: r.Pair.String(), Insights: r.Insights}
		if r.Err != nil {
			lines[i].Error = r.Err.Error()
		}
	}
	return writeJSON(c.App.Writer, lines)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
