package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/house-help/backend/internal/controllers/v1"
	"github.com/house-help/backend/internal/uuid"
	"github.com/house-help/backend/test"
)

// createTestShareLink mints a share link for the worker via the API.
func (suite *TestSuiteStandard) createTestShareLink(workerID any, expectedStatus ...int) v1.ShareLinkResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/workers/%s/share", workerID), "")
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.ShareLinkResponse
	test.DecodeResponse(suite.T(), &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestOptionsShare() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	r := test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/workers/%s/share", worker.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("POST", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/share-links", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("GET", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/share-links/some-token", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("DELETE", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCreateShareLink() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})

	link := suite.createTestShareLink(worker.Data.ID)
	suite.Assert().NotEmpty(link.Data.Token)
	suite.Assert().NotContains(link.Data.Token, "-", "tokens are opaque and URL-safe")
	suite.Assert().Equal(fmt.Sprintf("http://example.com/share/%s", link.Data.Token), link.Data.URL)
	suite.Assert().Nil(link.Data.ExpiresAt)
	suite.Assert().False(link.Data.Revoked)

	// Sharing the same worker again returns the existing link
	again := suite.createTestShareLink(worker.Data.ID)
	suite.Assert().Equal(link.Data.Token, again.Data.Token)

	// Sharing an unknown worker fails
	_ = suite.createTestShareLink(uuid.New(), http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetShareLinks() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	other := suite.createTestWorker(v1.WorkerEditable{Name: "Binita"})

	_ = suite.createTestShareLink(worker.Data.ID)
	_ = suite.createTestShareLink(other.Data.ID)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/share-links", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ShareLinkListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 2)
}

func (suite *TestSuiteStandard) TestRevokeShareLink() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	link := suite.createTestShareLink(worker.Data.ID)

	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/share-links/%s", link.Data.Token), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The revoked link still shows up in the list for auditing
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/share-links", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ShareLinkListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().True(response.Data[0].Revoked)

	// Revoking an unknown token fails
	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/share-links/no-such-token", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestRevokeShareLinkIsOwnerScoped() {
	worker := suite.createTestWorker(v1.WorkerEditable{Name: "Asha"})
	link := suite.createTestShareLink(worker.Data.ID)

	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/share-links/%s", link.Data.Token), "", map[string]string{
		"Authorization": "Bearer " + test.Token(suite.T(), "other@example.com"),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
