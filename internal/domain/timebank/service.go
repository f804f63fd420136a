package timebank

import "context"

type TimeBankService interface {
	// ComputeTimeBank reconciles one calendar month plus the cumulative balance since the baseline date
	ComputeTimeBank(ctx context.Context, req TimeBankRequest) (TimeBankResponse, error)

	// ComputeTimeBankRange is ComputeTimeBank over an arbitrary inclusive date range
	ComputeTimeBankRange(ctx context.Context, req TimeBankRangeRequest) (TimeBankResponse, error)
}
