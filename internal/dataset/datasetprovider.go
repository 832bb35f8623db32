package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/KifuGo/internal/decoder"
	"github.com/ChizhovVadim/KifuGo/internal/domain"
	"github.com/ChizhovVadim/KifuGo/internal/store"
)

const DefaultPageSize = 1024

type IRecordSource interface {
	LoadPage(ctx context.Context, afterID int64, limit int, filter store.Filter) ([]domain.GameRecord, error)
}

// DatasetProvider pages game records out of a source and decodes them in ID order.
// With SummaryOnly set the decoded examples are dropped after counting and
// the returned Result carries only the Summary.
type DatasetProvider struct {
	Source       IRecordSource
	Decoder      *decoder.Decoder
	PageSize     int
	Filter       store.Filter
	MaxSnapshots int
	SummaryOnly  bool
	Logger       *slog.Logger
}

func (dp *DatasetProvider) Load(ctx context.Context) (*decoder.Result, error) {
	if dp.Source == nil || dp.Decoder == nil {
		return nil, fmt.Errorf("dataset provider is not configured")
	}
	var logger = dp.logger()
	logger.Info("load dataset started")
	defer logger.Info("load dataset finished")

	g, ctx := errgroup.WithContext(ctx)

	var datasetReady = make(chan struct{})
	var pages = make(chan []domain.GameRecord, 4)

	g.Go(func() error {
		defer close(pages)
		return dp.loadPages(ctx, datasetReady, pages)
	})

	var result *decoder.Result
	g.Go(func() error {
		var res, err = dp.mergePages(ctx, pages, datasetReady)
		result = res
		return err
	})

	var err = g.Wait()
	if err != nil {
		return nil, err
	}
	err = dp.Decoder.Check(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (dp *DatasetProvider) logger() *slog.Logger {
	if dp.Logger != nil {
		return dp.Logger
	}
	return slog.Default()
}

func (dp *DatasetProvider) pageSize() int {
	if dp.PageSize <= 0 {
		return DefaultPageSize
	}
	return dp.PageSize
}
