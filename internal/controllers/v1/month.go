package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/httputil"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/salary"
	"github.com/house-help/backend/internal/store"
	"golang.org/x/exp/slices"
)

// RegisterMonthRoutes registers the routes for the monthly views with
// the RouterGroup that is passed.
func RegisterMonthRoutes(r *gin.RouterGroup) {
	// The monthly view
	{
		r.OPTIONS("", OptionsMonth)
		r.GET("", GetMonth)
	}

	// Month lock
	{
		r.OPTIONS("/lock", OptionsMonthLock)
		r.PUT("/lock", SetMonthLock)
	}

	// Salary settings
	{
		r.OPTIONS("/salary-config", OptionsSalaryConfig)
		r.PUT("/salary-config", UpsertSalaryConfig)
	}

	// Deductions
	{
		r.OPTIONS("/deductions", OptionsDeductionList)
		r.POST("/deductions", CreateDeduction)
	}
}

// RegisterDeductionRoutes registers the routes for single deductions with
// the RouterGroup that is passed.
func RegisterDeductionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id", OptionsDeductionDetail)
	r.DELETE("/:id", DeleteDeduction)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Months
// @Success		204
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	path	string	true	"Month in YYYY-MM format"
// @Router			/v1/workers/{id}/months/{month} [options]
func OptionsMonth(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Months
// @Success		204
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	path	string	true	"Month in YYYY-MM format"
// @Router			/v1/workers/{id}/months/{month}/lock [options]
func OptionsMonthLock(c *gin.Context) {
	httputil.OptionsPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Months
// @Success		204
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	path	string	true	"Month in YYYY-MM format"
// @Router			/v1/workers/{id}/months/{month}/salary-config [options]
func OptionsSalaryConfig(c *gin.Context) {
	httputil.OptionsPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Deductions
// @Success		204
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	path	string	true	"Month in YYYY-MM format"
// @Router			/v1/workers/{id}/months/{month}/deductions [options]
func OptionsDeductionList(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Deductions
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/deductions/{id} [options]
func OptionsDeductionDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Get month
// @Description	Returns the full monthly view of a worker: attendance, totals, lock state, salary settings, the computed salary and all deductions
// @Tags			Months
// @Produce		json
// @Success		200		{object}	MonthResponse
// @Failure		400		{object}	MonthResponse
// @Failure		404		{object}	MonthResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	path		string	true	"Month in YYYY-MM format"
// @Router			/v1/workers/{id}/months/{month} [get]
func GetMonth(c *gin.Context) {
	var uri URIMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{
			Error: &s,
		})
		return
	}

	// Viewing a month is what backfills the attendance of the current
	// month. For other months this is a no-op.
	_ = ledgerStore.AutoFill(ownerKey(c), uri.ID.UUID, time.Now())

	l, err := ledgerStore.Load(ownerKey(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthResponse{
			Error: &s,
		})
		return
	}

	if _, ok := l.Worker(uri.ID.UUID); !ok {
		c.JSON(http.StatusNotFound, MonthResponse{
			Error: strPtr("there is no worker matching your query"),
		})
		return
	}

	entries := make([]ledger.ShiftEntry, 0)
	for _, entry := range l.Entries {
		if entry.WorkerID == uri.ID.UUID && uri.Month.Equal(entry.Day.Month()) {
			entries = append(entries, entry)
		}
	}

	slices.SortFunc(entries, func(a, b ledger.ShiftEntry) int {
		if a.Day.Before(b.Day) {
			return -1
		}
		return 1
	})

	stats := l.CountMonth(uri.ID.UUID, uri.Month)

	data := Month{
		Month:       uri.Month,
		DaysInMonth: uri.Month.Days(),
		Entries:     entries,
		Totals:      stats.Totals,
		Days:        stats.Days,
		Locked:      l.Locked(uri.ID.UUID, uri.Month),
		Deductions:  l.MonthDeductions(uri.ID.UUID, uri.Month),
	}

	if lock, ok := l.Lock(uri.ID.UUID, uri.Month); ok {
		data.Lock = &lock
	}

	if config, ok := l.SalaryConfig(uri.ID.UUID, uri.Month); ok {
		data.SalaryConfig = &config

		result := salary.Calculate(uri.Month, stats.Totals, config.MonthlySalary, config.PaidOffAllowance, data.Deductions)
		data.Salary = &result
	}

	c.JSON(http.StatusOK, MonthResponse{Data: &data})
}

// @Summary		Lock or unlock month
// @Description	Locks or unlocks a month for a worker. A locked month rejects all attendance, salary and deduction edits until it is unlocked. Locking never changes the recorded values themselves.
// @Tags			Months
// @Accept			json
// @Produce		json
// @Success		200		{object}	LockResponse
// @Failure		400		{object}	LockResponse
// @Failure		404		{object}	LockResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	path		string			true	"Month in YYYY-MM format"
// @Param			lock	body		LockEditable	true	"Lock"
// @Router			/v1/workers/{id}/months/{month}/lock [put]
func SetMonthLock(c *gin.Context) {
	var uri URIMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LockResponse{
			Error: &s,
		})
		return
	}

	editable, err := httputil.BindData[LockEditable](c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LockResponse{
			Error: &s,
		})
		return
	}

	lock, err := ledgerStore.SetMonthLock(ownerKey(c), uri.ID.UUID, uri.Month, editable.Locked, editable.LockedBy)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LockResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, LockResponse{Data: &lock})
}

// @Summary		Set salary
// @Description	Sets the monthly salary and the paid OFF day allowance of a worker for one month. Out-of-range values are clamped, not rejected.
// @Tags			Months
// @Accept			json
// @Produce		json
// @Success		200				{object}	SalaryConfigResponse
// @Failure		400				{object}	SalaryConfigResponse
// @Failure		404				{object}	SalaryConfigResponse
// @Failure		409				{object}	SalaryConfigResponse
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month			path		string					true	"Month in YYYY-MM format"
// @Param			salaryConfig	body		SalaryConfigEditable	true	"Salary settings"
// @Router			/v1/workers/{id}/months/{month}/salary-config [put]
func UpsertSalaryConfig(c *gin.Context) {
	var uri URIMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SalaryConfigResponse{
			Error: &s,
		})
		return
	}

	editable, err := httputil.BindData[SalaryConfigEditable](c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SalaryConfigResponse{
			Error: &s,
		})
		return
	}

	config, err := ledgerStore.UpsertSalaryConfig(ownerKey(c), uri.ID.UUID, uri.Month, editable.MonthlySalary, editable.PaidOffAllowance)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SalaryConfigResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, SalaryConfigResponse{Data: &config})
}

// @Summary		Create deduction
// @Description	Adds a deduction for the worker in this month. Deductions are independent lines and are never merged.
// @Tags			Deductions
// @Accept			json
// @Produce		json
// @Success		201			{object}	DeductionResponse
// @Failure		400			{object}	DeductionResponse
// @Failure		404			{object}	DeductionResponse
// @Failure		409			{object}	DeductionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month		path		string				true	"Month in YYYY-MM format"
// @Param			deduction	body		DeductionEditable	true	"Deduction"
// @Router			/v1/workers/{id}/months/{month}/deductions [post]
func CreateDeduction(c *gin.Context) {
	var uri URIMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DeductionResponse{
			Error: &s,
		})
		return
	}

	editable, err := httputil.BindData[DeductionEditable](c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DeductionResponse{
			Error: &s,
		})
		return
	}

	if !uri.Month.Equal(editable.Day.Month()) {
		s := store.ErrDayOutsideMonth.Error()
		c.JSON(http.StatusBadRequest, DeductionResponse{
			Error: &s,
		})
		return
	}

	deduction, err := ledgerStore.AddDeduction(ownerKey(c), uri.ID.UUID, editable.Day, editable.Amount, editable.Note)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DeductionResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, DeductionResponse{Data: &deduction})
}

// @Summary		Delete deduction
// @Description	Deletes a deduction. The month the deduction belongs to must not be locked.
// @Tags			Deductions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/deductions/{id} [delete]
func DeleteDeduction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = ledgerStore.DeleteDeduction(ownerKey(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
