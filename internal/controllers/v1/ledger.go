package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/autosync"
	"github.com/house-help/backend/internal/httputil"
	"github.com/house-help/backend/internal/ledger"
)

type LedgerResponse struct {
	Data  *ledger.Ledger `json:"data"`  // The full ledger document
	Error *string        `json:"error"` // The error, if any occurred
}

type SyncResponse struct {
	Data *autosync.Status `json:"data"` // Sync status of the caller's ledger
}

// RegisterLedgerRoutes registers the routes for the raw ledger document
// with the RouterGroup that is passed.
func RegisterLedgerRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsLedger)
	r.GET("", GetLedger)
}

// RegisterSyncRoutes registers the routes for the sync status with the
// RouterGroup that is passed.
func RegisterSyncRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSync)
	r.GET("", GetSync)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Ledger
// @Success		204
// @Router			/v1/ledger [options]
func OptionsLedger(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Ledger
// @Success		204
// @Router			/v1/sync [options]
func OptionsSync(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Export ledger
// @Description	Returns the caller's full ledger document, the same shape that is synced to the remote
// @Tags			Ledger
// @Produce		json
// @Success		200	{object}	LedgerResponse
// @Failure		500	{object}	LedgerResponse
// @Router			/v1/ledger [get]
func GetLedger(c *gin.Context) {
	l, err := ledgerStore.Load(ownerKey(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, LedgerResponse{Data: &l})
}

// @Summary		Sync status
// @Description	Returns where the caller's ledger stands relative to the remote blob store
// @Tags			Ledger
// @Produce		json
// @Success		200	{object}	SyncResponse
// @Router			/v1/sync [get]
func GetSync(c *gin.Context) {
	syncStatus := reconciler.Status(ownerKey(c))
	c.JSON(http.StatusOK, SyncResponse{Data: &syncStatus})
}
