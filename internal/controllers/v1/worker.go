package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/httputil"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/uuid"
	"github.com/rs/zerolog/log"
)

// RegisterWorkerRoutes registers the routes for workers with
// the RouterGroup that is passed.
func RegisterWorkerRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsWorkerList)
		r.GET("", GetWorkers)
		r.POST("", CreateWorker)
	}

	// Worker with ID
	{
		r.OPTIONS("/:id", OptionsWorkerDetail)
		r.GET("/:id", GetWorker)
		r.PATCH("/:id", UpdateWorker)
		r.DELETE("/:id", DeleteWorker)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Workers
// @Success		204
// @Router			/v1/workers [options]
func OptionsWorkerList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Workers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workers/{id} [options]
func OptionsWorkerDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	l, err := ledgerStore.Load(ownerKey(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if _, ok := l.Worker(uri.ID.UUID); !ok {
		c.JSON(http.StatusNotFound, httpError{
			Error: "there is no worker matching your query",
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create worker
// @Description	Creates a new worker
// @Tags			Workers
// @Produce		json
// @Success		201		{object}	WorkerResponse
// @Failure		400		{object}	WorkerResponse
// @Failure		500		{object}	WorkerResponse
// @Param			worker	body		WorkerEditable	true	"Worker"
// @Router			/v1/workers [post]
func CreateWorker(c *gin.Context) {
	editable, err := httputil.BindData[WorkerEditable](c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), WorkerResponse{
			Error: &e,
		})
		return
	}

	worker, err := ledgerStore.UpsertWorker(ownerKey(c), uuid.Nil.UUID, editable.Name, editable.DefaultShiftLabel)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), WorkerResponse{
			Error: &e,
		})
		return
	}

	data := newWorker(c, worker)
	c.JSON(http.StatusCreated, WorkerResponse{Data: &data})
}

// @Summary		Get workers
// @Description	Returns the list of workers
// @Tags			Workers
// @Produce		json
// @Success		200	{object}	WorkerListResponse
// @Failure		500	{object}	WorkerListResponse
// @Router			/v1/workers [get]
func GetWorkers(c *gin.Context) {
	l, err := ledgerStore.Load(ownerKey(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), WorkerListResponse{
			Error: &e,
		})
		return
	}

	autoFillWorkers(ownerKey(c), l.Workers)

	data := make([]Worker, 0, len(l.Workers))
	for _, worker := range l.Workers {
		data = append(data, newWorker(c, worker))
	}

	c.JSON(http.StatusOK, WorkerListResponse{Data: data})
}

// @Summary		Get worker
// @Description	Returns a specific worker
// @Tags			Workers
// @Produce		json
// @Success		200	{object}	WorkerResponse
// @Failure		400	{object}	WorkerResponse
// @Failure		404	{object}	WorkerResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workers/{id} [get]
func GetWorker(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkerResponse{
			Error: &s,
		})
		return
	}

	l, err := ledgerStore.Load(ownerKey(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkerResponse{
			Error: &s,
		})
		return
	}

	worker, ok := l.Worker(uri.ID.UUID)
	if !ok {
		c.JSON(http.StatusNotFound, WorkerResponse{
			Error: strPtr("there is no worker matching your query"),
		})
		return
	}

	data := newWorker(c, worker)
	c.JSON(http.StatusOK, WorkerResponse{Data: &data})
}

// @Summary		Update worker
// @Description	Updates an existing worker
// @Tags			Workers
// @Accept			json
// @Produce		json
// @Success		200		{object}	WorkerResponse
// @Failure		400		{object}	WorkerResponse
// @Failure		404		{object}	WorkerResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			worker	body		WorkerEditable	true	"Worker"
// @Router			/v1/workers/{id} [patch]
func UpdateWorker(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkerResponse{
			Error: &s,
		})
		return
	}

	editable, err := httputil.BindData[WorkerEditable](c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkerResponse{
			Error: &s,
		})
		return
	}

	worker, err := ledgerStore.UpsertWorker(ownerKey(c), uri.ID.UUID, editable.Name, editable.DefaultShiftLabel)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkerResponse{
			Error: &s,
		})
		return
	}

	data := newWorker(c, worker)
	c.JSON(http.StatusOK, WorkerResponse{Data: &data})
}

// @Summary		Delete worker
// @Description	Deletes a worker and all attendance, locks, salary settings and deductions that belong to it
// @Tags			Workers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workers/{id} [delete]
func DeleteWorker(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = ledgerStore.DeleteWorker(ownerKey(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// autoFillWorkers backfills the attendance of the current month for all
// workers. Listing the workers is how every client session starts, which
// makes it the natural trigger.
func autoFillWorkers(owner string, workers []ledger.Worker) {
	now := time.Now()

	for _, worker := range workers {
		err := ledgerStore.AutoFill(owner, worker.ID, now)
		if err != nil {
			log.Warn().Str("owner", owner).Str("worker", worker.ID.String()).Err(err).Msg("attendance backfill failed")
		}
	}
}

func strPtr(s string) *string {
	return &s
}
