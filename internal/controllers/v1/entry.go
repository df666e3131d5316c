package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/httputil"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/types"
)

// EntryEditable represents all user configurable parameters of an
// attendance entry
type EntryEditable struct {
	Day    types.Day     `json:"dateISO" binding:"required" example:"2024-03-12"` // Day the entry is for
	Status ledger.Status `json:"status" example:"WORKED"`                         // One of WORKED, ABSENT, HALF, OFF
	Hours  float64       `json:"hours" example:"8"`                               // Hours worked, informational only
	Note   string        `json:"note" example:"Came late" default:""`             // Notes about the entry
}

type EntryResponse struct {
	Data  *ledger.ShiftEntry `json:"data"`                                                // Data for the entry
	Error *string            `json:"error" example:"this month is locked and cannot be edited"` // The error, if any occurred
}

// RegisterEntryRoutes registers the routes for attendance entries with
// the RouterGroup that is passed.
func RegisterEntryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsEntry)
	r.PUT("", UpsertEntry)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Attendance
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workers/{id}/entries [options]
func OptionsEntry(c *gin.Context) {
	httputil.OptionsPut(c)
}

// @Summary		Set attendance
// @Description	Sets the attendance of the worker for one day. A worker has at most one entry per day: setting a day that already has an entry overwrites it in place.
// @Tags			Attendance
// @Accept			json
// @Produce		json
// @Success		200		{object}	EntryResponse
// @Failure		400		{object}	EntryResponse
// @Failure		404		{object}	EntryResponse
// @Failure		409		{object}	EntryResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			entry	body		EntryEditable	true	"Entry"
// @Router			/v1/workers/{id}/entries [put]
func UpsertEntry(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), EntryResponse{
			Error: &s,
		})
		return
	}

	editable, err := httputil.BindData[EntryEditable](c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), EntryResponse{
			Error: &s,
		})
		return
	}

	entry, err := ledgerStore.UpsertEntry(ownerKey(c), uri.ID.UUID, editable.Day, editable.Status, editable.Hours, editable.Note)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), EntryResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, EntryResponse{Data: &entry})
}
