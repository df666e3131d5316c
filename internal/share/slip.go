package share

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/models"
	"github.com/house-help/backend/internal/salary"
	"github.com/house-help/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

var ErrSlipWorkerGone = fmt.Errorf("%w worker for this share link", models.ErrResourceNotFound)

// SlipDeduction is one deduction line on a slip, stripped of internal IDs.
type SlipDeduction struct {
	Day    types.Day `json:"dateISO" example:"2024-03-12"`
	Amount int64     `json:"amount" example:"500"`
	Note   string    `json:"note" example:"Advance"`
}

// SlipSalary is the computed salary section of a slip. It is only present
// when a salary has been configured for the month.
type SlipSalary struct {
	MonthlySalary    int64           `json:"monthlySalary" example:"12000"`
	PaidOffAllowance int64           `json:"paidOffAllowance" example:"2"`
	PerDay           decimal.Decimal `json:"perDay" example:"400"`
	WorkedAmount     decimal.Decimal `json:"workedAmount" example:"9600"`
	HalfAmount       decimal.Decimal `json:"halfAmount" example:"400"`
	OffAmount        decimal.Decimal `json:"offAmount" example:"800"`
	PaidOffCount     int64           `json:"paidOffCount" example:"2"`
	UnpaidOffCount   int64           `json:"unpaidOffCount" example:"1"`
	GrossPayable     decimal.Decimal `json:"grossPayable" example:"10800"`
	DeductionsTotal  decimal.Decimal `json:"deductionsTotal" example:"500"`
	NetPayable       decimal.Decimal `json:"netPayable" example:"10300"`
}

// Slip is the read-only monthly view a share token resolves to.
type Slip struct {
	WorkerName  string                        `json:"workerName" example:"Asha"`
	Month       types.Month                   `json:"monthKey" example:"2024-03"`
	MonthLabel  string                        `json:"monthLabel" example:"March 2024"`
	DaysInMonth int                           `json:"daysInMonth" example:"31"`
	Totals      ledger.Totals                 `json:"totals"`
	Days        map[ledger.Status][]types.Day `json:"days"`
	Salary      *SlipSalary                   `json:"salary"`
	Deductions  []SlipDeduction               `json:"deductions"`
	Locked      bool                          `json:"locked" example:"true"`
	Partial     bool                          `json:"partial" example:"false"`
	Locale      string                        `json:"locale" example:"en"`
	Labels      map[string]string             `json:"labels"`
	GeneratedAt time.Time                     `json:"generatedAt" example:"2024-03-31T19:02:15.000000Z"`
}

// Project renders the slip of one worker for one month.
//
// Projection is read-only: it never mutates the ledger, and the slip
// carries none of the ledger's internal record IDs.
func Project(l ledger.Ledger, workerID uuid.UUID, month types.Month, locale string, now time.Time) (Slip, error) {
	worker, ok := l.Worker(workerID)
	if !ok {
		return Slip{}, ErrSlipWorkerGone
	}

	locale = matchLocale(locale)
	stats := l.CountMonth(workerID, month)

	slip := Slip{
		WorkerName:  worker.Name,
		Month:       month,
		MonthLabel:  monthLabel(month, locale),
		DaysInMonth: month.Days(),
		Totals:      stats.Totals,
		Days:        stats.Days,
		Deductions:  []SlipDeduction{},
		Locked:      l.Locked(workerID, month),
		// The current month can only ever show data up to yesterday
		Partial:     month.Contains(now),
		Locale:      locale,
		Labels:      labels[locale],
		GeneratedAt: now.In(time.UTC),
	}

	deductions := l.MonthDeductions(workerID, month)
	for _, d := range deductions {
		slip.Deductions = append(slip.Deductions, SlipDeduction{
			Day:    d.Day,
			Amount: d.Amount,
			Note:   d.Note,
		})
	}

	if config, ok := l.SalaryConfig(workerID, month); ok {
		result := salary.Calculate(month, stats.Totals, config.MonthlySalary, config.PaidOffAllowance, deductions)

		slip.Salary = &SlipSalary{
			MonthlySalary:    config.MonthlySalary,
			PaidOffAllowance: config.PaidOffAllowance,
			PerDay:           result.PerDay.Round(2),
			WorkedAmount:     result.WorkedAmount.Round(2),
			HalfAmount:       result.HalfAmount.Round(2),
			OffAmount:        result.OffAmount.Round(2),
			PaidOffCount:     result.PaidOffCount,
			UnpaidOffCount:   result.UnpaidOffCount,
			GrossPayable:     result.GrossPayable.Round(2),
			DeductionsTotal:  result.DeductionsTotal.Round(2),
			NetPayable:       result.NetPayable.Round(2),
		}
	}

	return slip, nil
}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Hindi,
})

// matchLocale resolves an Accept-Language style value to a supported
// locale, falling back to English.
func matchLocale(locale string) string {
	tag, _ := language.MatchStrings(matcher, locale)

	base, _ := tag.Base()
	if base.String() == "hi" {
		return "hi"
	}

	return "en"
}

var hindiMonths = [12]string{
	"जनवरी", "फ़रवरी", "मार्च", "अप्रैल", "मई", "जून",
	"जुलाई", "अगस्त", "सितंबर", "अक्टूबर", "नवंबर", "दिसंबर",
}

func monthLabel(month types.Month, locale string) string {
	t := time.Time(month)

	if locale == "hi" {
		return fmt.Sprintf("%s %d", hindiMonths[t.Month()-1], t.Year())
	}

	return t.Format("January 2006")
}

var labels = map[string]map[string]string{
	"en": {
		"title":      "Salary slip",
		"worked":     "Worked",
		"half":       "Half day",
		"off":        "Off",
		"absent":     "Absent",
		"paidOff":    "Paid off days",
		"unpaidOff":  "Unpaid off days",
		"perDay":     "Per day",
		"gross":      "Gross payable",
		"deductions": "Deductions",
		"net":        "Net payable",
		"locked":     "Finalized",
		"partial":    "Data till yesterday",
	},
	"hi": {
		"title":      "वेतन पर्ची",
		"worked":     "काम किया",
		"half":       "आधा दिन",
		"off":        "छुट्टी",
		"absent":     "अनुपस्थित",
		"paidOff":    "सवेतन छुट्टी",
		"unpaidOff":  "बिना वेतन छुट्टी",
		"perDay":     "प्रति दिन",
		"gross":      "कुल देय",
		"deductions": "कटौती",
		"net":        "शुद्ध देय",
		"locked":     "अंतिम",
		"partial":    "कल तक का डेटा",
	},
}
