package v1_test

import (
	"net/http"
	"time"

	"github.com/house-help/backend/internal/autosync"
	v1 "github.com/house-help/backend/internal/controllers/v1"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/types"
	"github.com/house-help/backend/test"
)

func (suite *TestSuiteStandard) TestOptionsLedger() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/ledger", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("GET", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/sync", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("GET", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestGetLedger() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	_ = suite.upsertTestEntry(worker.Data.ID, v1.EntryEditable{
		Day:    types.NewDay(2024, time.March, 12),
		Status: ledger.StatusWorked,
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/ledger", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LedgerResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().NotNil(response.Data)
	suite.Assert().Len(response.Data.Workers, 1)
	suite.Assert().NotEmpty(response.Data.Entries)
	suite.Assert().Equal(ledger.CurrentVersion, response.Data.Version)
}

func (suite *TestSuiteStandard) TestGetSync() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/sync", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SyncResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// The test setup has no remote, the ledger is always idle
	suite.Assert().Equal(autosync.StateIdle, response.Data.State)
	suite.Assert().Nil(response.Data.LastSyncedAt)
}
