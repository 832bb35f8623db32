package dataset

import (
	"context"

	"github.com/ChizhovVadim/KifuGo/internal/domain"
)

func (dp *DatasetProvider) loadPages(
	ctx context.Context,
	datasetReady <-chan struct{},
	pages chan<- []domain.GameRecord,
) error {
	var afterID int64
	var pageCount, gameCount int
	defer func() {
		dp.logger().Debug("loadPages",
			"pageCount", pageCount,
			"gameCount", gameCount)
	}()
	for {
		select {
		case <-datasetReady:
			return nil
		default:
		}
		var page, err = dp.Source.LoadPage(ctx, afterID, dp.pageSize(), dp.Filter)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		afterID = page[len(page)-1].ID
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-datasetReady:
			return nil
		case pages <- page:
			pageCount++
			gameCount += len(page)
		}
	}
}
