package v1

import (
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/salary"
	"github.com/house-help/backend/internal/types"
)

// Month is the full monthly view of one worker: attendance, lock state,
// salary settings, computed salary and deductions in one response.
type Month struct {
	Month        types.Month                   `json:"monthKey" example:"2024-03"`
	DaysInMonth  int                           `json:"daysInMonth" example:"31"`
	Entries      []ledger.ShiftEntry           `json:"entries"`
	Totals       ledger.Totals                 `json:"totals"`
	Days         map[ledger.Status][]types.Day `json:"days"`
	Locked       bool                          `json:"locked" example:"false"`
	Lock         *ledger.MonthLock             `json:"lock"`
	SalaryConfig *ledger.SalaryConfig          `json:"salaryConfig"`
	Salary       *salary.Result                `json:"salary"`
	Deductions   []ledger.Deduction            `json:"deductions"`
}

type MonthResponse struct {
	Data  *Month  `json:"data"`                                                   // Data for the month
	Error *string `json:"error" example:"the month must be specified as YYYY-MM"` // The error, if any occurred
}

// LockEditable represents all user configurable parameters of a month lock
type LockEditable struct {
	Locked   bool   `json:"locked" example:"true"`                 // Lock or unlock the month
	LockedBy string `json:"lockedBy" example:"Priya" default:""` // Who locked the month, informational only
}

type LockResponse struct {
	Data  *ledger.MonthLock `json:"data"`                                                // Data for the lock
	Error *string           `json:"error" example:"there is no worker matching your query"` // The error, if any occurred
}

// SalaryConfigEditable represents all user configurable salary parameters
type SalaryConfigEditable struct {
	MonthlySalary    int64 `json:"monthlySalary" example:"12000"` // Salary for the full month
	PaidOffAllowance int64 `json:"paidOffAllowance" example:"2"`  // Number of OFF days paid at the full rate
}

type SalaryConfigResponse struct {
	Data  *ledger.SalaryConfig `json:"data"`                                                      // Data for the salary settings
	Error *string              `json:"error" example:"this month is locked and cannot be edited"` // The error, if any occurred
}

// DeductionEditable represents all user configurable parameters of a
// deduction
type DeductionEditable struct {
	Day    types.Day `json:"dateISO" binding:"required" example:"2024-03-12"` // Day the deduction was given
	Amount int64     `json:"amount" example:"500"`                            // Amount, must be positive
	Note   string    `json:"note" example:"Advance" default:""`               // Notes about the deduction
}

type DeductionResponse struct {
	Data  *ledger.Deduction `json:"data"`                                                  // Data for the deduction
	Error *string           `json:"error" example:"deduction amounts must be larger than zero"` // The error, if any occurred
}
