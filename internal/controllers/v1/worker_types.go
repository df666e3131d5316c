package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/httputil"
	"github.com/house-help/backend/internal/ledger"
)

// WorkerEditable represents all user configurable parameters
type WorkerEditable struct {
	Name              string `json:"name" example:"Asha" default:""`                // Name of the worker
	DefaultShiftLabel string `json:"defaultShiftLabel" example:"Morning" default:""` // Label shown for the worker's usual shift
}

type WorkerLinks struct {
	Self   string `json:"self" example:"https://example.com/v1/workers/3b1ea324-d438-4419-882a-2fc91d71772f"`               // The worker itself
	Months string `json:"months" example:"https://example.com/v1/workers/3b1ea324-d438-4419-882a-2fc91d71772f/months/2024-03"` // Template for the monthly views of this worker
}

type Worker struct {
	ledger.Worker
	Links WorkerLinks `json:"links"`
}

func newWorker(c *gin.Context, model ledger.Worker) Worker {
	url := httputil.RequestPathV1(c)

	return Worker{
		Worker: model,
		Links: WorkerLinks{
			Self:   fmt.Sprintf("%s/workers/%s", url, model.ID),
			Months: fmt.Sprintf("%s/workers/%s/months/{month}", url, model.ID),
		},
	}
}

type WorkerListResponse struct {
	Data  []Worker `json:"data"`                                                          // List of workers
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type WorkerResponse struct {
	Data  *Worker `json:"data"`                                                          // Data for the worker
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
