package auction

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/usecase/dispatch"
	auctiondto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/auction"
)

// processAuction matches one auction, dispatches, and marks it matched.
// matched_at is only stamped when every delivery succeeded, so a failed
// delivery is retried by the next backlog tick.
func (uc *DefaultAuctionUsecase) processAuction(ctx context.Context, auction *domain.Auction) (dispatch.Report, error) {
	now := uc.clock.Now()
	matches, err := uc.matcher.Match(ctx, auction, now)
	if err != nil {
		return dispatch.Report{}, err
	}

	report := uc.dispatcher.Dispatch(ctx, auction, matches)
	if report.Failed > 0 && auction.IsOpen(uc.clock.Now()) {
		return report, fmt.Errorf("%d notifications failed for %s", report.Failed, auction.BidNumber)
	}

	if err := uc.auctionRepo.MarkMatched(ctx, auction.BidNumber, uc.clock.Now()); err != nil {
		return report, err
	}
	return report, nil
}

// ProcessMatchBacklog берёт до chunkSize открытых аукционов без matched_at.
func (uc *DefaultAuctionUsecase) ProcessMatchBacklog(ctx context.Context, chunkSize int) (*auctiondto.BacklogReport, error) {
	auctions, err := uc.auctionRepo.ListUnmatched(ctx, uc.clock.Now(), chunkSize)
	if err != nil {
		return nil, err
	}

	total := &auctiondto.BacklogReport{}
	for _, auction := range auctions {
		if ctx.Err() != nil {
			break
		}
		report, err := uc.processAuction(ctx, auction)
		total.Processed++
		total.Sent += report.Sent
		total.Skipped += report.Skipped
		total.Failed += report.Failed
		if err != nil {
			uc.logger.Warn("backlog auction not finished", "bid_number", auction.BidNumber, "error", err)
		}
	}
	return total, nil
}

// ProcessDeadlines проходит по всем открытым аукционам и рассылает
// deadline_approaching. Повторы отсекает журнал уведомлений, matched_at
// не трогаем.
func (uc *DefaultAuctionUsecase) ProcessDeadlines(ctx context.Context, chunkSize int) (*auctiondto.BacklogReport, error) {
	total := &auctiondto.BacklogReport{}
	for offset := 0; ctx.Err() == nil; offset += chunkSize {
		now := uc.clock.Now()
		auctions, err := uc.auctionRepo.ListActiveAuctions(ctx, now, domain.AuctionFilter{Limit: chunkSize, Offset: offset})
		if err != nil {
			return total, err
		}
		for _, auction := range auctions {
			matches, err := uc.matcher.MatchDeadlines(ctx, auction, uc.clock.Now())
			total.Processed++
			if err != nil {
				uc.logger.Warn("deadline matching failed", "bid_number", auction.BidNumber, "error", err)
				continue
			}
			if len(matches) == 0 {
				continue
			}
			report := uc.dispatcher.Dispatch(ctx, auction, matches)
			total.Sent += report.Sent
			total.Skipped += report.Skipped
			total.Failed += report.Failed
		}
		if len(auctions) < chunkSize {
			break
		}
	}
	return total, nil
}

// ArchiveExpired только помечает archived_at, на статус аукциона это не влияет.
func (uc *DefaultAuctionUsecase) ArchiveExpired(ctx context.Context, archiveAfter time.Duration, chunkSize int) (int64, error) {
	now := uc.clock.Now()
	closedBefore := now.Add(-archiveAfter)
	archived, err := uc.auctionRepo.ArchiveExpired(ctx, closedBefore, now, chunkSize)
	if err != nil {
		return 0, err
	}
	if archived > 0 {
		uc.metrics.RecordAuctionsArchived(archived)
		uc.logger.Info("auctions archived", "count", archived)
	}
	return archived, nil
}
