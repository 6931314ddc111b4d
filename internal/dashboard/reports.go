package dashboard

import (
	"context"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/forms"
)

// AverageTicket returns the average sale value within the range.
func (d *Dashboard) AverageTicket(ctx context.Context, f forms.ReportRange) (*client.AverageTicket, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}
	avg, err := d.api.AverageTicket(ctx, client.DateRange{From: f.From, To: f.To})
	if err != nil {
		return nil, d.fail(err, "Failed to load average ticket, please try again.")
	}
	return avg, nil
}

// SalesBreakdown returns the revenue share per product within the range.
func (d *Dashboard) SalesBreakdown(ctx context.Context, f forms.ReportRange) (*client.Breakdown, error) {
	if err := d.requireAuth(); err != nil {
		return nil, err
	}
	if err := f.Validate().Err(); err != nil {
		return nil, err
	}
	b, err := d.api.SalesBreakdown(ctx, client.DateRange{From: f.From, To: f.To})
	if err != nil {
		return nil, d.fail(err, "Failed to load sales breakdown, please try again.")
	}
	return b, nil
}
