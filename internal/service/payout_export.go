package service

import (
	"bufio"
	"io"
	"strings"
	"time"

	"longa/internal/domain/entity"
)

var payoutExportHeader = []string{
	"Provider Name",
	"Bank/Mobile Number",
	"Service Type",
	"Job ID",
	"Service Name",
	"Job Date",
	"Payout Amount",
	"Payment Type/Notes",
}

// PayoutExporter renders payout rows in the finance bank-upload format.
type PayoutExporter struct {
	loc *time.Location
}

func NewPayoutExporter(loc *time.Location) *PayoutExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &PayoutExporter{loc: loc}
}

// Filename is longa-payouts-<yyyymmdd>.csv for the export date in the
// configured location.
func (e *PayoutExporter) Filename(exportedAt time.Time) string {
	return "longa-payouts-" + exportedAt.In(e.loc).Format("20060102") + ".csv"
}

// Write emits the header and one line per row. Text fields are always
// quoted; the amount is never quoted.
func (e *PayoutExporter) Write(w io.Writer, rows []entity.PayoutExportRow) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(payoutExportHeader, ",") + "\n"); err != nil {
		return err
	}

	for _, row := range rows {
		jobID := ""
		if row.BookingID != nil {
			jobID = row.BookingID.String()
		}
		jobDate := ""
		if row.JobDate != nil {
			jobDate = row.JobDate.Format("2006-01-02")
		}

		fields := []string{
			quoteField(row.PayeeName),
			quoteField(row.PayeeAccount),
			quoteField(serviceTypeLabel(row)),
			quoteField(jobID),
			quoteField(row.ServiceName),
			quoteField(jobDate),
			row.Amount.StringFixed(2),
			quoteField(paymentNote(row)),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func serviceTypeLabel(row entity.PayoutExportRow) string {
	switch entity.ServiceType(row.ServiceType) {
	case entity.ServiceTypeOneOff:
		return "One-off"
	case entity.ServiceTypeSubscription:
		return "Subscription"
	}
	if row.PayoutType == entity.PayoutTypeManual {
		return "Manual"
	}
	return row.ServiceType
}

func paymentNote(row entity.PayoutExportRow) string {
	label := "Job payout"
	if row.PayoutType == entity.PayoutTypeManual {
		label = "Manual payout"
	}
	if notes := strings.TrimSpace(row.Notes); notes != "" {
		return label + " - " + notes
	}
	return label
}
