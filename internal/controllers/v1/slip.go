package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/httputil"
	"github.com/house-help/backend/internal/share"
	"github.com/house-help/backend/internal/types"
)

type SlipResponse struct {
	Data  *share.Slip `json:"data"`                                                        // Data for the slip
	Error *string     `json:"error" example:"there is no share link matching your query"` // The error, if any occurred
}

// RegisterSlipRoutes registers the public routes for shared salary slips
// with the RouterGroup that is passed. These routes are unauthenticated,
// the token is the whole credential.
func RegisterSlipRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:token", OptionsSlip)
	r.GET("/:token", GetSlip)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Sharing
// @Success		204
// @Param			token	path	string	true	"Token of the share link"
// @Router			/share/{token} [options]
func OptionsSlip(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get shared slip
// @Description	Returns the read-only salary slip a share token grants access to. Defaults to the current month. A revoked or expired token is indistinguishable from one that never existed.
// @Tags			Sharing
// @Produce		json
// @Success		200		{object}	SlipResponse
// @Failure		400		{object}	SlipResponse
// @Failure		404		{object}	SlipResponse
// @Param			token	path		string	true	"Token of the share link"
// @Param			month	query		string	false	"Month in YYYY-MM format, defaults to the current month"
// @Param			locale	query		string	false	"Locale of the slip labels, overrides Accept-Language"
// @Router			/share/{token} [get]
func GetSlip(c *gin.Context) {
	var uri URIToken
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SlipResponse{
			Error: &s,
		})
		return
	}

	link, err := shareLinks.Resolve(uri.Token)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SlipResponse{
			Error: &s,
		})
		return
	}

	now := time.Now()

	month := types.MonthOf(now)
	if raw, ok := c.GetQuery("month"); ok {
		month, err = types.ParseMonth(raw)
		if err != nil {
			s := httputil.ErrInvalidMonth.Error()
			c.JSON(http.StatusBadRequest, SlipResponse{
				Error: &s,
			})
			return
		}
	}

	locale := c.Query("locale")
	if locale == "" {
		locale = c.GetHeader("Accept-Language")
	}

	l, err := ledgerStore.Load(link.OwnerKey)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SlipResponse{
			Error: &s,
		})
		return
	}

	slip, err := share.Project(l, link.WorkerID, month, locale, now)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SlipResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, SlipResponse{Data: &slip})
}
