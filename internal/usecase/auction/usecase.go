package auction

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/metrics"
	"github.com/LavaJover/freight-auction-service/internal/usecase/dispatch"
	auctiondto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/auction"
)

type AuctionUsecase interface {
	IngestAuction(ctx context.Context, input *auctiondto.IngestAuctionInput) (*auctiondto.IngestAuctionOutput, error)
	GetAuction(ctx context.Context, bidNumber string) (*domain.Auction, error)
	ListActiveAuctions(ctx context.Context, filter domain.AuctionFilter) ([]*domain.Auction, error)
	ProcessMatchBacklog(ctx context.Context, chunkSize int) (*auctiondto.BacklogReport, error)
	ProcessDeadlines(ctx context.Context, chunkSize int) (*auctiondto.BacklogReport, error)
	ArchiveExpired(ctx context.Context, archiveAfter time.Duration, chunkSize int) (int64, error)
}

type Matcher interface {
	Match(ctx context.Context, auction *domain.Auction, now time.Time) ([]domain.Match, error)
	MatchDeadlines(ctx context.Context, auction *domain.Auction, now time.Time) ([]domain.Match, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, auction *domain.Auction, matches []domain.Match) dispatch.Report
}

type DefaultAuctionUsecase struct {
	auctionRepo domain.AuctionRepository
	matcher     Matcher
	dispatcher  Dispatcher
	clock       domain.Clock
	metrics     *metrics.AuctionMetrics
	logger      *slog.Logger
}

func NewDefaultAuctionUsecase(
	auctionRepo domain.AuctionRepository,
	matcher Matcher,
	dispatcher Dispatcher,
	clock domain.Clock,
	metrics *metrics.AuctionMetrics,
	logger *slog.Logger,
) *DefaultAuctionUsecase {
	return &DefaultAuctionUsecase{
		auctionRepo: auctionRepo,
		matcher:     matcher,
		dispatcher:  dispatcher,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}
