// Package report renders a crop outlook as an XLSX workbook.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mr1hm/go-crop-advisor/internal/estimator"
	"github.com/mr1hm/go-crop-advisor/internal/models"
)

const (
	SheetProjection  = "Projection"
	SheetPrediction  = "Prediction"
	SheetRainfall    = "Rainfall Sweep"
	SheetTemperature = "Temperature Sweep"
	SheetGuide       = "Growing Guide"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Request is everything a report is computed from.
type Request struct {
	District   string
	Baseline   models.CropBaseline
	Conditions estimator.Conditions
	Inputs     estimator.Inputs
	Steps      []models.CultivationStep
}

// Filename suggests an attachment name for the report.
func (r Request) Filename() string {
	name := r.Baseline.CropID
	if name == "" {
		name = "crop"
	}
	return fmt.Sprintf("%s-outlook.xlsx", name)
}

type outlook struct {
	prediction  estimator.Prediction
	projection  estimator.Projection
	rainfall    estimator.Sweep
	temperature estimator.Sweep
	malformed   bool
}

func compute(r Request) (outlook, error) {
	var (
		o    outlook
		errs []error
	)
	// keep tolerates a malformed baseline and stops on anything else
	keep := func(err error) bool {
		if err == nil {
			return true
		}
		if errors.Is(err, estimator.ErrMalformedBaseline) {
			o.malformed = true
			errs = append(errs, err)
			return true
		}
		errs = []error{err}
		return false
	}

	var err error
	o.prediction, err = estimator.Predict(r.Baseline, r.Conditions)
	if !keep(err) {
		return outlook{}, err
	}
	o.projection, err = estimator.Simulate(r.Baseline, r.Inputs)
	if !keep(err) {
		return outlook{}, err
	}
	o.rainfall, err = estimator.RainfallSweep(r.Baseline, r.Conditions)
	if !keep(err) {
		return outlook{}, err
	}
	o.temperature, err = estimator.TemperatureSweep(r.Baseline, r.Conditions)
	if !keep(err) {
		return outlook{}, err
	}
	return o, errors.Join(errs...)
}

// Build computes the outlook and lays it out in a new workbook. A malformed
// baseline still yields a workbook; the error is returned alongside it.
func Build(r Request) (*excelize.File, error) {
	o, computeErr := compute(r)
	if computeErr != nil && !o.malformed {
		return nil, computeErr
	}

	f := excelize.NewFile()
	w := &sheetWriter{f: f}
	if w.header, w.err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); w.err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating header style: %w", w.err)
	}

	w.rename("Sheet1", SheetProjection)
	writeProjection(w, r, o)
	w.add(SheetPrediction)
	writePrediction(w, o)
	w.add(SheetRainfall)
	writeSweep(w, SheetRainfall, o.rainfall)
	w.add(SheetTemperature)
	writeSweep(w, SheetTemperature, o.temperature)
	w.add(SheetGuide)
	writeGuide(w, r.Steps)

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, computeErr
}

// Write builds the workbook and streams it to out.
func Write(out io.Writer, r Request) error {
	f, buildErr := Build(r)
	if f == nil {
		return buildErr
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return buildErr
}

// sheetWriter keeps the first excelize error and ignores later calls.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) rename(from, to string) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetSheetName(from, to)
}

func (w *sheetWriter) add(sheet string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(sheet)
}

func (w *sheetWriter) row(sheet string, row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) headerRow(sheet string, row int, values ...any) {
	w.row(sheet, row, values...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	w.err = w.f.SetCellStyle(sheet, first, last, w.header)
}

func (w *sheetWriter) widths(sheet string, first, last string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, first, last, width)
}

func writeProjection(w *sheetWriter, r Request, o outlook) {
	p := o.projection
	s := SheetProjection
	w.widths(s, "A", "B", 24)

	w.headerRow(s, 1, "Crop", p.Crop)
	w.row(s, 2, "District", r.District)
	w.row(s, 3, "Rainfall (mm/year)", p.Inputs.Rainfall)
	w.row(s, 4, "Fertilizer", p.Inputs.Fertilizer.String())
	w.row(s, 5, "Technology", p.Inputs.Technology.String())

	w.headerRow(s, 7, "Modifier", "Value")
	w.row(s, 8, "Rainfall", p.RainfallModifier)
	w.row(s, 9, "Fertilizer", p.FertilizerModifier)
	w.row(s, 10, "Technology", p.TechnologyModifier)

	w.headerRow(s, 12, "Cost (₹/hectare)", "Amount")
	w.row(s, 13, "Seed", p.Costs.Seed)
	w.row(s, 14, "Fertilizer", p.Costs.Fertilizer)
	w.row(s, 15, "Labor", p.Costs.Labor)
	w.row(s, 16, "Technology", p.Costs.Technology)
	w.row(s, 17, "Total", p.Costs.Total)

	w.headerRow(s, 19, "Outcome", "Value")
	w.row(s, 20, "Base yield (t/ha)", p.BaseYield)
	w.row(s, 21, "Projected yield (t/ha)", p.ProjectedYield)
	w.row(s, 22, "Price (₹/kg)", p.BasePrice)
	w.row(s, 23, "Revenue (₹)", p.Revenue)
	w.row(s, 24, "Net profit (₹)", p.NetProfit)
	if p.ROIDefined {
		w.row(s, 25, "ROI (%)", p.ROI)
	} else {
		w.row(s, 25, "ROI (%)", "n/a")
	}
	if o.malformed {
		w.row(s, 27, "Note", "baseline text could not be parsed; missing values were treated as 0")
	}
}

func writePrediction(w *sheetWriter, o outlook) {
	p := o.prediction
	s := SheetPrediction
	w.widths(s, "A", "B", 24)

	w.headerRow(s, 1, "Crop", p.Crop)
	w.row(s, 2, "Rainfall (mm/year)", p.Conditions.Rainfall)
	w.row(s, 3, "Temperature (°C)", p.Conditions.Temperature)
	w.row(s, 4, "Soil type", string(p.Conditions.SoilType))
	w.row(s, 5, "Soil pH", p.Conditions.SoilPH)

	w.headerRow(s, 7, "Factor", "Multiplier")
	w.row(s, 8, "Rainfall", p.Factors.Rainfall)
	w.row(s, 9, "Temperature", p.Factors.Temperature)
	w.row(s, 10, "Soil pH", p.Factors.SoilPH)
	w.row(s, 11, "Combined", p.Adjustment)

	w.headerRow(s, 13, "Result", "Value")
	w.row(s, 14, "Base yield (t/ha)", p.BaseYield)
	w.row(s, 15, "Adjusted yield (t/ha)", p.AdjustedYield)
	w.row(s, 16, "Difference", p.Difference)
	w.row(s, 17, "Status", string(p.Status))
}

func writeSweep(w *sheetWriter, sheet string, sw estimator.Sweep) {
	w.widths(sheet, "A", "B", 20)
	w.headerRow(sheet, 1, fmt.Sprintf("%s (%s)", sw.Parameter, sw.Unit), "Yield (t/ha)")
	for i, pt := range sw.Points {
		w.row(sheet, i+2, pt.Input, pt.Yield)
	}
}

func writeGuide(w *sheetWriter, steps []models.CultivationStep) {
	s := SheetGuide
	w.widths(s, "A", "A", 8)
	w.widths(s, "B", "B", 22)
	w.widths(s, "C", "C", 60)
	w.widths(s, "D", "D", 14)
	w.widths(s, "E", "E", 40)

	w.headerRow(s, 1, "Step", "Stage", "Description", "Duration (days)", "Tips")
	for i, st := range steps {
		w.row(s, i+2, st.StepNumber, st.StageName, st.Description, st.DurationDays, st.Tips)
	}
}
