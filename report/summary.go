package report

import (
	"fmt"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/voteworks/electnet/dataset"
	"github.com/voteworks/electnet/modelselection"
)

// SummaryStage prints the dataset overview, the ranked tuning tables, and
// the final classification metrics.
func (p *Pipeline) SummaryStage(table *dataset.Table, reg *RegressionResult, clf *ClassificationResult) error {
	winners, err := table.Numeric(dataset.ColRepublican16)
	if err != nil {
		return err
	}
	var rep int
	for _, v := range winners {
		if v == 1 {
			rep++
		}
	}

	fmt.Fprintf(p.out, "Counties: %d (Republican 2016 majority: %d, Democratic: %d)\n",
		table.NumRows(), rep, table.NumRows()-rep)

	share, err := table.Numeric(dataset.ColRepShare)
	if err != nil {
		return err
	}
	mean, std := stat.MeanStdDev(share, nil)
	fmt.Fprintf(p.out, "2012 Republican vote share: mean %.4f, std %.4f\n\n", mean, std)

	if err := p.printSearch("Lasso regression (RMSE, lower is better)", reg.Lasso); err != nil {
		return err
	}
	if err := p.printSearch("Elastic net regression (RMSE, lower is better)", reg.ElasticNet); err != nil {
		return err
	}
	if err := p.printSearch("Logistic lasso (accuracy, higher is better)", clf.Lasso); err != nil {
		return err
	}
	if err := p.printSearch("Logistic elastic net (accuracy, higher is better)", clf.ElasticNet); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Classification metrics (evaluation set)")
	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "model\taccuracy\tsensitivity\tspecificity\troc auc\tlog loss")
	printMetricsRow(w, "logistic baseline", clf.Baseline)
	printMetricsRow(w, "best elastic net", clf.Final)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(p.out)
	return nil
}

func (p *Pipeline) printSearch(title string, res *modelselection.SearchResult) error {
	fmt.Fprintln(p.out, title)
	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "rank\tpenalty\tmixture\tmean\tstd err")
	for i, cand := range res.Top(p.cfg.TopN) {
		fmt.Fprintf(w, "%d\t%.6g\t%.2f\t%.4f\t%.4f\n",
			i+1, cand.Candidate.Penalty, cand.Candidate.Mixture, cand.MeanScore, cand.StdErr)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(p.out)
	return nil
}

func printMetricsRow(w *tabwriter.Writer, name string, m ClassMetrics) {
	fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
		name, m.Accuracy, m.Sensitivity, m.Specificity, m.AUC, m.LogLoss)
}
