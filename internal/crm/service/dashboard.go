package service

import (
	"context"
	"log/slog"
	"math"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/slogx"
)

type DashboardService struct {
	Store store.Store
}

// KPI aggregates call counts for the dashboard. Connection rate is connected
// over total calls; appointment rate is appointed over connected calls. Both
// are percentages rounded to one decimal, zero when the denominator is zero.
func (s *DashboardService) KPI(ctx context.Context, f domain.KPIFilter) (domain.KPIReport, error) {
	log := slogx.FromContext(ctx)

	calls := s.Store.CallLogs()

	total, err := calls.CountCalls(ctx, f, "")
	if err != nil {
		log.Error("failed to count total calls", slog.Any("error", err))
		return domain.KPIReport{}, err
	}
	connected, err := calls.CountCalls(ctx, f, domain.LeadConnected)
	if err != nil {
		log.Error("failed to count connected calls", slog.Any("error", err))
		return domain.KPIReport{}, err
	}
	appointed, err := calls.CountCalls(ctx, f, domain.LeadAppointed)
	if err != nil {
		log.Error("failed to count appointed calls", slog.Any("error", err))
		return domain.KPIReport{}, err
	}

	return domain.KPIReport{
		TotalCalls:      total,
		ConnectedCalls:  connected,
		AppointedCalls:  appointed,
		ConnectionRate:  percent(connected, total),
		AppointmentRate: percent(appointed, connected),
	}, nil
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*10) / 10
}
