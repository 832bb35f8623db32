package dataset

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/ChizhovVadim/KifuGo/internal/decoder"
	"github.com/ChizhovVadim/KifuGo/internal/domain"
)

func (dp *DatasetProvider) mergePages(
	ctx context.Context,
	pages <-chan []domain.GameRecord,
	datasetReady chan<- struct{},
) (*decoder.Result, error) {
	var result = &decoder.Result{}
	var skipped int
	var bytes uint64

	for page := range pages {
		if datasetReady == nil {
			skipped += len(page)
			continue
		}
		for i := range page {
			var res, err = dp.Decoder.Decode(page[i : i+1])
			if err != nil {
				return nil, err
			}
			if !dp.SummaryOnly {
				result.Examples = append(result.Examples, res.Examples...)
			}
			result.Summary.Add(res.Summary)
			bytes += uint64(len(page[i].Records))

			if dp.MaxSnapshots != 0 && result.Summary.Snapshots >= dp.MaxSnapshots {
				skipped += len(page) - i - 1
				close(datasetReady)
				datasetReady = nil
				break
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	dp.logger().Info("mergePages",
		"games", result.Summary.Games,
		"snapshots", result.Summary.Snapshots,
		"size", humanize.Bytes(bytes),
		"skippedGames", skipped)
	return result, nil
}
