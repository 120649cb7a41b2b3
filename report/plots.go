package report

import (
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/voteworks/electnet/dataset"
	"github.com/voteworks/electnet/linear_model"
	"github.com/voteworks/electnet/pkg/errors"
)

// WinnerBarChart renders counts of counties by 2016 majority winner to
// winners_2016.png under dir.
func WinnerBarChart(table *dataset.Table, dir string) error {
	winners, err := table.Numeric(dataset.ColRepublican16)
	if err != nil {
		return err
	}

	var dem, rep float64
	for _, v := range winners {
		if v == 1 {
			rep++
		} else {
			dem++
		}
	}

	p := plot.New()
	p.Title.Text = "Counties by 2016 majority winner"
	p.Y.Label.Text = "Counties"

	bars, err := plotter.NewBarChart(plotter.Values{dem, rep}, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "building bar chart")
	}
	p.Add(bars)
	p.NominalX("Democrat", "Republican")

	return savePlot(p, dir, "winners_2016.png")
}

// SharePopulationScatter renders the 2012 Republican vote share against
// log10 population with an ordinary least squares fitted line to
// share_vs_population.png under dir.
func SharePopulationScatter(table *dataset.Table, dir string) error {
	share, err := table.Numeric(dataset.ColRepShare)
	if err != nil {
		return err
	}
	logPop, err := table.Numeric(colLogPopulation)
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, len(share))
	for i := range share {
		pts[i].X = logPop[i]
		pts[i].Y = share[i]
	}

	p := plot.New()
	p.Title.Text = "2012 Republican share vs population"
	p.X.Label.Text = "log10(population)"
	p.Y.Label.Text = "Republican vote share 2012"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "building scatter")
	}
	p.Add(scatter)

	line, err := fittedLine(logPop, share)
	if err != nil {
		return err
	}
	p.Add(line)

	return savePlot(p, dir, "share_vs_population.png")
}

// fittedLine fits y on x by least squares and returns the line segment
// spanning the observed x range.
func fittedLine(x, y []float64) (*plotter.Line, error) {
	X := mat.NewDense(len(x), 1, nil)
	yv := mat.NewVecDense(len(y), nil)
	for i := range x {
		X.Set(i, 0, x[i])
		yv.SetVec(i, y[i])
	}

	ols := linear_model.NewLinearRegression()
	if err := ols.Fit(X, yv); err != nil {
		return nil, err
	}
	slope := ols.Coef()[0]
	intercept := ols.Intercept()

	lo, hi := x[0], x[0]
	for _, v := range x {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	line, err := plotter.NewLine(plotter.XYs{
		{X: lo, Y: intercept + slope*lo},
		{X: hi, Y: intercept + slope*hi},
	})
	if err != nil {
		return nil, errors.Wrap(err, "building fitted line")
	}
	return line, nil
}

func savePlot(p *plot.Plot, dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating plot directory")
	}
	path := filepath.Join(dir, name)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
