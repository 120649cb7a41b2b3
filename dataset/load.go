package dataset

import (
	"io"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/voteworks/electnet/pkg/errors"
	"github.com/voteworks/electnet/pkg/log"
)

// Load reads and cleans election.csv from path. Rows with missing or
// out-of-range required fields are dropped; the count of dropped rows is
// returned and logged so a dirty input never silently shrinks the dataset.
func Load(path string) ([]Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.NewDataLoadError(path, 0, "cannot open input file", err)
	}
	defer f.Close()

	records, dropped, err := Read(f)
	if err != nil {
		return nil, 0, errors.NewDataLoadError(path, 0, "cannot parse input file", err)
	}

	slog.Info("dataset loaded",
		slog.String("path", path),
		slog.Int(log.RowsKey, len(records)),
		slog.Int(log.DroppedRowsKey, dropped))

	return records, dropped, nil
}

// Read parses CSV rows from r and drops invalid ones, returning the clean
// records and the number of rows dropped.
func Read(r io.Reader) ([]Record, int, error) {
	var raw []*rawRecord
	if err := gocsv.Unmarshal(r, &raw); err != nil {
		return nil, 0, errors.Wrap(err, "decoding csv")
	}
	if len(raw) == 0 {
		return nil, 0, errors.WithStack(errors.ErrEmptyData)
	}

	records := make([]Record, 0, len(raw))
	dropped := 0
	for i, row := range raw {
		if reason := row.validate(); reason != "" {
			dropped++
			slog.Debug("dropping row",
				slog.Int("row", i+1),
				slog.String("reason", reason))
			continue
		}
		records = append(records, row.toRecord())
	}

	if len(records) == 0 {
		return nil, dropped, errors.New("every row was dropped during cleaning")
	}
	return records, dropped, nil
}
