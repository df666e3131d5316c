package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/house-help/backend/internal/controllers/v1"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/types"
	"github.com/house-help/backend/internal/uuid"
	"github.com/house-help/backend/test"
)

// upsertTestEntry sets the attendance for one day via the API.
func (suite *TestSuiteStandard) upsertTestEntry(workerID any, entry v1.EntryEditable, expectedStatus ...int) v1.EntryResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/workers/%s/entries", workerID), entry)
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.EntryResponse
	test.DecodeResponse(suite.T(), &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestOptionsEntry() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/workers/%s/entries", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("PUT", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestUpsertEntry() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	entry := suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{
		Day:    types.NewDay(2024, time.March, 12),
		Status: ledger.StatusWorked,
		Hours:  8,
	})

	suite.Assert().Equal(ledger.StatusWorked, entry.Data.Status)
	suite.Assert().Equal("2024-03-12", entry.Data.Day.String())
	suite.Assert().NotEmpty(entry.Data.ID)
}

func (suite *TestSuiteStandard) TestUpsertEntryOverwritesDay() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	day := types.NewDay(2024, time.March, 12)

	first := suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{Day: day, Status: ledger.StatusWorked})
	second := suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{Day: day, Status: ledger.StatusAbsent, Note: "Sick"})

	suite.Assert().Equal(first.Data.ID, second.Data.ID, "overwriting a day must keep the entry ID")
	suite.Assert().Equal(ledger.StatusAbsent, second.Data.Status)

	// The month still has exactly one entry for the day
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s/months/2024-03", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var month v1.MonthResponse
	test.DecodeResponse(suite.T(), &r, &month)
	suite.Assert().Len(month.Data.Entries, 1)
}

func (suite *TestSuiteStandard) TestUpsertEntryInvalid() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	// Unknown status
	response := suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{
		Day:    types.NewDay(2024, time.March, 12),
		Status: "VACATION",
	}, http.StatusBadRequest)
	suite.Assert().Equal("the attendance status is invalid", *response.Error)

	// Missing day
	_ = suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{Status: ledger.StatusWorked}, http.StatusBadRequest)

	// Unknown worker
	_ = suite.upsertTestEntry(uuid.New(), v1.EntryEditable{
		Day:    types.NewDay(2024, time.March, 12),
		Status: ledger.StatusWorked,
	}, http.StatusNotFound)

	// Broken JSON
	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/workers/%s/entries", worker.Data.ID), `{ "dateISO": `)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpsertEntryLockedMonth() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	suite.lockTestMonth(worker.Data.ID, "2024-03", true)

	response := suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{
		Day:    types.NewDay(2024, time.March, 12),
		Status: ledger.StatusWorked,
	}, http.StatusConflict)
	suite.Assert().Equal("this month is locked and cannot be edited", *response.Error)

	// Other months stay editable
	_ = suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{
		Day:    types.NewDay(2024, time.April, 1),
		Status: ledger.StatusWorked,
	})

	// Unlocking re-enables edits
	suite.lockTestMonth(worker.Data.ID, "2024-03", false)
	_ = suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{
		Day:    types.NewDay(2024, time.March, 12),
		Status: ledger.StatusWorked,
	})
}
