package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-crop-advisor/internal/catalog"
	"github.com/mr1hm/go-crop-advisor/internal/chart"
	"github.com/mr1hm/go-crop-advisor/internal/config"
	"github.com/mr1hm/go-crop-advisor/internal/estimator"
	"github.com/mr1hm/go-crop-advisor/internal/ingestion"
	"github.com/mr1hm/go-crop-advisor/internal/logging"
	"github.com/mr1hm/go-crop-advisor/internal/models"
	"github.com/mr1hm/go-crop-advisor/internal/report"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
)

type options struct {
	district    string
	crop        string
	rainfall    float64
	temperature float64
	ph          float64
	soil        string
	fertilizer  string
	technology  string
	sweep       string
	chart       string
	report      string
	top         int
}

func main() {
	_ = godotenv.Load()

	cond, in := estimator.DefaultConditions(), estimator.DefaultInputs()
	var o options
	flag.StringVar(&o.district, "district", "Coimbatore", "district name or id")
	flag.StringVar(&o.crop, "crop", "", "crop name or id (omit to only list top picks)")
	flag.Float64Var(&o.rainfall, "rainfall", cond.Rainfall, "annual rainfall in mm")
	flag.Float64Var(&o.temperature, "temperature", cond.Temperature, "average temperature in °C")
	flag.Float64Var(&o.ph, "ph", cond.SoilPH, "soil pH")
	flag.StringVar(&o.soil, "soil", string(cond.SoilType), "soil type")
	flag.StringVar(&o.fertilizer, "fertilizer", in.Fertilizer.String(), "fertilizer level: low, medium or high")
	flag.StringVar(&o.technology, "technology", in.Technology.String(), "technology level: basic, moderate or advanced")
	flag.StringVar(&o.sweep, "sweep", "", "print a yield sweep over rainfall or temperature")
	flag.StringVar(&o.chart, "chart", "", "write the sweep chart to this PNG file")
	flag.StringVar(&o.report, "report", "", "write an XLSX report to this file")
	flag.IntVar(&o.top, "top", 0, "list the N best crops for the district")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, "text"))

	if err := run(context.Background(), cfg, o, os.Stdout); err != nil {
		logging.Fatalf("yield-sim: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, o options, out io.Writer) error {
	db, err := repository.NewSQLiteDB(":memory:")
	if err != nil {
		return fmt.Errorf("opening catalog store: %w", err)
	}
	defer db.Close()

	mgr := ingestion.NewManager(cfg, catalog.NewBuiltin(), db, nil)
	if _, err := mgr.SyncOnce(ctx); err != nil {
		return fmt.Errorf("loading built-in catalog: %w", err)
	}

	district, err := db.GetDistrict(ctx, o.district)
	if err != nil {
		return err
	}

	if o.top > 0 || o.crop == "" {
		if err := printTopPicks(ctx, db, district, o.top, out); err != nil {
			return err
		}
	}
	if o.crop == "" {
		return nil
	}

	b, err := db.GetBaseline(ctx, district.ID, o.crop)
	if err != nil {
		return err
	}
	cond, in, err := o.parameters()
	if err != nil {
		return err
	}

	p, err := estimator.Predict(*b, cond)
	if err = tolerate(err); err != nil {
		return err
	}
	proj, err := estimator.Simulate(*b, in)
	if err = tolerate(err); err != nil {
		return err
	}
	printOutlook(out, district, p, proj)

	if o.sweep != "" || o.chart != "" {
		if err := o.writeSweep(*b, cond, out); err != nil {
			return err
		}
	}

	if o.report != "" {
		steps, err := db.ListCultivationSteps(ctx, b.CropID)
		if err != nil {
			return err
		}
		f, err := os.Create(o.report)
		if err != nil {
			return err
		}
		defer f.Close()
		err = report.Write(f, report.Request{
			District:   district.Name,
			Baseline:   *b,
			Conditions: cond,
			Inputs:     in,
			Steps:      steps,
		})
		if err = tolerate(err); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nreport written to %s\n", o.report)
	}
	return nil
}

// tolerate logs a malformed baseline and lets the zero-filled result through.
func tolerate(err error) error {
	if errors.Is(err, estimator.ErrMalformedBaseline) {
		slog.Warn("baseline values could not be parsed, treating them as 0", "error", err)
		return nil
	}
	return err
}

func (o options) parameters() (estimator.Conditions, estimator.Inputs, error) {
	soil, err := estimator.ParseSoilType(o.soil)
	if err != nil {
		return estimator.Conditions{}, estimator.Inputs{}, err
	}
	fert, err := estimator.ParseFertilizerLevel(o.fertilizer)
	if err != nil {
		return estimator.Conditions{}, estimator.Inputs{}, err
	}
	tech, err := estimator.ParseTechnologyLevel(o.technology)
	if err != nil {
		return estimator.Conditions{}, estimator.Inputs{}, err
	}

	cond := estimator.Conditions{Rainfall: o.rainfall, Temperature: o.temperature, SoilType: soil, SoilPH: o.ph}
	// rainfall above the economic model's range is capped for the projection only
	inRain := min(o.rainfall, estimator.InputsRainfallDomain.Max)
	in := estimator.Inputs{Rainfall: inRain, Fertilizer: fert, Technology: tech}
	return cond, in, nil
}

func (o options) writeSweep(b models.CropBaseline, cond estimator.Conditions, out io.Writer) error {
	param := estimator.SweepRainfall
	if o.sweep != "" {
		var err error
		if param, err = estimator.ParseSweepParameter(o.sweep); err != nil {
			return err
		}
	}

	s, err := estimator.SweepYield(b, cond, param)
	if err = tolerate(err); err != nil {
		return err
	}

	if o.sweep != "" {
		fmt.Fprintf(out, "\n%s sweep (%s)\n", s.Parameter, s.Unit)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "INPUT\tYIELD (t/ha)")
		for _, pt := range s.Points {
			fmt.Fprintf(tw, "%g\t%.1f\n", pt.Input, pt.Yield)
		}
		tw.Flush()
	}

	if o.chart != "" {
		f, err := os.Create(o.chart)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := chart.RenderSweep(f, s); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nchart written to %s\n", o.chart)
	}
	return nil
}

func printTopPicks(ctx context.Context, db repository.CatalogReader, d *models.District, n int, out io.Writer) error {
	baselines, err := db.ListBaselines(ctx, repository.Filter{District: d.ID})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Top crops for %s\n", d.Name)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCROP\tSUITABILITY\tYIELD\tPRICE\tSCORE")
	for i, r := range estimator.TopPicks(baselines, n) {
		fmt.Fprintf(tw, "%d\t%s\t%d%%\t%s\t%s\t%.2f\n", i+1, r.Crop, r.Baseline.Suitability,
			r.Baseline.EstimatedYield, r.Baseline.MarketPrice, r.Score)
	}
	return tw.Flush()
}

func printOutlook(out io.Writer, d *models.District, p estimator.Prediction, proj estimator.Projection) {
	fmt.Fprintf(out, "\n%s in %s\n", p.Crop, d.Name)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Base yield\t%.1f t/ha\n", p.BaseYield)
	fmt.Fprintf(tw, "Adjusted yield\t%.1f t/ha (%s, %s)\n", p.AdjustedYield, p.Difference, p.Status)
	fmt.Fprintf(tw, "Factors\trainfall %.2f, temperature %.2f, pH %.2f\n",
		p.Factors.Rainfall, p.Factors.Temperature, p.Factors.SoilPH)
	fmt.Fprintf(tw, "Projected yield\t%.1f t/ha (%s fertilizer, %s technology)\n",
		proj.ProjectedYield, proj.Inputs.Fertilizer, proj.Inputs.Technology)
	fmt.Fprintf(tw, "Total cost\t₹%.0f\n", proj.Costs.Total)
	fmt.Fprintf(tw, "Revenue\t₹%.0f\n", proj.Revenue)
	fmt.Fprintf(tw, "Net profit\t₹%.0f\n", proj.NetProfit)
	if proj.ROIDefined {
		fmt.Fprintf(tw, "ROI\t%.1f%%\n", proj.ROI)
	} else {
		fmt.Fprintln(tw, "ROI\tn/a")
	}
	tw.Flush()
}
