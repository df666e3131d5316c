package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/house-help/backend/internal/controllers/v1"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/salary"
	"github.com/house-help/backend/internal/types"
	"github.com/house-help/backend/internal/uuid"
	"github.com/house-help/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// lockTestMonth locks or unlocks a month via the API.
func (suite *TestSuiteStandard) lockTestMonth(workerID any, month string, locked bool, expectedStatus ...int) v1.LockResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/workers/%s/months/%s/lock", workerID, month), v1.LockEditable{Locked: locked, LockedBy: "Priya"})
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.LockResponse
	test.DecodeResponse(suite.T(), &r, &response)

	return response
}

// fillTestMonth records the attendance of April 2024: 24 days worked,
// 2 half days, 3 days off and 1 absence.
func (suite *TestSuiteStandard) fillTestMonth(workerID any) {
	day := 1
	addDays := func(status ledger.Status, count int) {
		for i := 0; i < count; i++ {
			_ = suite.upsertTestEntry(workerID, v1.EntryEditable{
				Day:    types.NewDay(2024, time.April, day),
				Status: status,
			})
			day++
		}
	}

	addDays(ledger.StatusWorked, 24)
	addDays(ledger.StatusHalf, 2)
	addDays(ledger.StatusOff, 3)
	addDays(ledger.StatusAbsent, 1)
}

func (suite *TestSuiteStandard) TestOptionsMonth() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	tests := []struct {
		path  string
		allow string
	}{
		{"months/2024-03", "GET"},
		{"months/2024-03/lock", "PUT"},
		{"months/2024-03/salary-config", "PUT"},
		{"months/2024-03/deductions", "POST"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/workers/%s/%s", worker.Data.ID, tt.path), "")
			test.AssertHTTPStatus(t, &r, http.StatusNoContent)
			assert.Equal(t, tt.allow, r.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestGetMonth() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	suite.fillTestMonth(worker.Data.ID)

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.MonthResponse
	test.DecodeResponse(suite.T(), &r, &response)

	month := response.Data
	suite.Assert().Equal("2024-04", month.Month.String())
	suite.Assert().Equal(30, month.DaysInMonth)
	suite.Assert().Len(month.Entries, 30)
	suite.Assert().Equal(24, month.Totals.Worked)
	suite.Assert().Equal(2, month.Totals.Half)
	suite.Assert().Equal(3, month.Totals.Off)
	suite.Assert().Equal(1, month.Totals.Absent)
	suite.Assert().False(month.Locked)
	suite.Assert().Nil(month.SalaryConfig)
	suite.Assert().Nil(month.Salary, "without salary settings no salary is computed")

	// Entries are sorted by day
	suite.Assert().Equal("2024-04-01", month.Entries[0].Day.String())
	suite.Assert().Equal("2024-04-30", month.Entries[29].Day.String())
}

func (suite *TestSuiteStandard) TestGetMonthInvalid() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	// Unknown worker
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// Malformed month
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s/months/April", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestMonthSalary() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	suite.fillTestMonth(worker.Data.ID)

	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/salary-config", worker.Data.ID), v1.SalaryConfigEditable{
		MonthlySalary:    12000,
		PaidOffAllowance: 2,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/deductions", worker.Data.ID), v1.DeductionEditable{
		Day:    types.NewDay(2024, time.April, 10),
		Amount: 500,
		Note:   "Advance",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.MonthResponse
	test.DecodeResponse(suite.T(), &r, &response)

	month := response.Data
	suite.Require().NotNil(month.SalaryConfig)
	suite.Assert().Equal(int64(12000), month.SalaryConfig.MonthlySalary)

	suite.Require().NotNil(month.Salary)
	suite.Assert().True(month.Salary.PerDay.Equal(decimal.NewFromInt(400)), "perDay is %s", month.Salary.PerDay)
	suite.Assert().True(month.Salary.GrossPayable.Equal(decimal.NewFromInt(10800)), "gross is %s", month.Salary.GrossPayable)
	suite.Assert().True(month.Salary.DeductionsTotal.Equal(decimal.NewFromInt(500)), "deductions are %s", month.Salary.DeductionsTotal)
	suite.Assert().True(month.Salary.NetPayable.Equal(decimal.NewFromInt(10300)), "net is %s", month.Salary.NetPayable)

	suite.Require().Len(month.Deductions, 1)
	suite.Assert().Equal(int64(500), month.Deductions[0].Amount)
}

func (suite *TestSuiteStandard) TestUpsertSalaryConfigClamps() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/salary-config", worker.Data.ID), v1.SalaryConfigEditable{
		MonthlySalary:    -100,
		PaidOffAllowance: 999,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SalaryConfigResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(int64(0), response.Data.MonthlySalary, "negative salaries are clamped to zero")
	suite.Assert().Equal(salary.MaxPaidOffAllowance, response.Data.PaidOffAllowance, "the allowance is clamped to its maximum")
}

func (suite *TestSuiteStandard) TestMonthLock() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	lock := suite.lockTestMonth(worker.Data.ID, "2024-04", true)
	suite.Assert().True(lock.Data.Locked)
	suite.Assert().Equal("Priya", lock.Data.LockedBy)
	suite.Assert().NotNil(lock.Data.LockedAt)

	// A locked month rejects salary and deduction edits
	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/salary-config", worker.Data.ID), v1.SalaryConfigEditable{MonthlySalary: 12000})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	r = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/deductions", worker.Data.ID), v1.DeductionEditable{
		Day:    types.NewDay(2024, time.April, 10),
		Amount: 500,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// The lock itself can always be changed, otherwise unlocking would
	// be impossible
	unlock := suite.lockTestMonth(worker.Data.ID, "2024-04", false)
	suite.Assert().False(unlock.Data.Locked)

	// Locking an unknown worker fails
	_ = suite.lockTestMonth(uuid.New(), "2024-04", true, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestLockedMonthKeepsValues() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	suite.fillTestMonth(worker.Data.ID)
	suite.lockTestMonth(worker.Data.ID, "2024-04", true)

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.MonthResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(response.Data.Locked)
	suite.Assert().Len(response.Data.Entries, 30, "locking must not change the recorded values")
}

func (suite *TestSuiteStandard) TestCreateDeductionInvalid() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	// The day must be inside the month of the URL
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/deductions", worker.Data.ID), v1.DeductionEditable{
		Day:    types.NewDay(2024, time.May, 1),
		Amount: 500,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("the day must be inside the requested month", test.DecodeError(suite.T(), r.Body.Bytes()))

	// Amounts must be positive
	r = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/deductions", worker.Data.ID), v1.DeductionEditable{
		Day:    types.NewDay(2024, time.April, 1),
		Amount: 0,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("deduction amounts must be larger than zero", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestDeductionsAreNeverMerged() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	for i := 0; i < 2; i++ {
		r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/deductions", worker.Data.ID), v1.DeductionEditable{
			Day:    types.NewDay(2024, time.April, 10),
			Amount: 500,
			Note:   "Advance",
		})
		test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
	}

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.MonthResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data.Deductions, 2, "identical deductions stay separate lines")
}

func (suite *TestSuiteStandard) TestDeleteDeduction() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/deductions", worker.Data.ID), v1.DeductionEditable{
		Day:    types.NewDay(2024, time.April, 10),
		Amount: 500,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.DeductionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	r = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/deductions/%s", response.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// Deleting twice fails
	r = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/deductions/%s", response.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteDeductionLockedMonth() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-04/deductions", worker.Data.ID), v1.DeductionEditable{
		Day:    types.NewDay(2024, time.April, 10),
		Amount: 500,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.DeductionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.lockTestMonth(worker.Data.ID, "2024-04", true)

	r = test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/deductions/%s", response.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
}
