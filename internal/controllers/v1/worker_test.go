package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/house-help/backend/internal/controllers/v1"
	"github.com/house-help/backend/internal/uuid"
	"github.com/house-help/backend/test"
)

// createTestWorker creates a test worker via the API.
func (suite *TestSuiteStandard) createTestWorker(worker v1.WorkerEditable, expectedStatus ...int) v1.WorkerResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/workers", worker)
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.WorkerResponse
	test.DecodeResponse(suite.T(), &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestOptionsWorker() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/workers", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("GET, POST", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/workers/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/workers/NotAUUID", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	r = test.Request(suite.T(), http.MethodOptions, worker.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("GET, PATCH, DELETE", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCreateWorker() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "  Asha ", DefaultShiftLabel: "Morning"})

	suite.Assert().Equal("Asha", worker.Data.Name, "the name is not trimmed")
	suite.Assert().Equal("Morning", worker.Data.DefaultShiftLabel)
	suite.Assert().NotEmpty(worker.Data.ID)
	suite.Assert().Contains(worker.Data.Links.Self, fmt.Sprintf("/v1/workers/%s", worker.Data.ID))
	suite.Assert().Contains(worker.Data.Links.Months, "/months/{month}")
}

func (suite *TestSuiteStandard) TestCreateWorkerInvalid() {
	// An empty name is rejected
	response := suite.createTestWorker(v1.WorkerEditable{Name: "   "}, http.StatusBadRequest)
	suite.Assert().Equal("the worker name must not be empty", *response.Error)

	// Broken JSON is rejected
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/workers", `{ "name": "Asha"`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// An empty body is rejected
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/workers", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("the request body must not be empty", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestGetWorkers() {
	_ = suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	_ = suite.createTestWorker(v1.WorkerEditable{Name: "Binita"})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/workers", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.WorkerListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 2)
}

func (suite *TestSuiteStandard) TestGetWorkersIsOwnerScoped() {
	_ = suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	// Another household sees an empty list
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/workers", "", map[string]string{
		"Authorization": "Bearer " + test.Token(suite.T(), "other@example.com"),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.WorkerListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestGetWorker() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodGet, worker.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.WorkerResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(worker.Data.ID, response.Data.ID)

	// Nonexistent worker
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/workers/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// Invalid ID
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/workers/NotAUUID", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateWorker() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodPatch, worker.Data.Links.Self, v1.WorkerEditable{Name: "Asha Devi", DefaultShiftLabel: "Evening"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.WorkerResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(worker.Data.ID, response.Data.ID, "updating must not change the ID")
	suite.Assert().Equal("Asha Devi", response.Data.Name)
	suite.Assert().Equal("Evening", response.Data.DefaultShiftLabel)

	// Nonexistent worker
	r = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/workers/%s", uuid.New()), v1.WorkerEditable{Name: "Ghost"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteWorker() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodDelete, worker.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, worker.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// Deleting twice fails
	r = test.Request(suite.T(), http.MethodDelete, worker.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestWorkersUnauthenticated() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/workers", "", map[string]string{
		"Authorization": "",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/workers", "", map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestHouseholdSharesWorkers() {
	// All members of the household resolve to the same ledger
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodGet, worker.Data.Links.Self, "", map[string]string{
		"Authorization": "Bearer " + test.Token(suite.T(), "partner@example.com"),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}
