package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/autosync"
	"github.com/house-help/backend/internal/share"
	"github.com/house-help/backend/internal/store"
	"github.com/house-help/backend/internal/types"
	hh_uuid "github.com/house-help/backend/internal/uuid"
)

type URIID struct {
	ID hh_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMonth struct {
	URIID
	Month types.Month `uri:"month" binding:"required" example:"2024-03"` // Year and month in YYYY-MM format
}

type URIToken struct {
	Token string `uri:"token" binding:"required"` // Token of the share link
}

// OwnerKeyContext is the context key the authentication middleware stores
// the resolved owner key under.
const OwnerKeyContext = "ownerKey"

func ownerKey(c *gin.Context) string {
	return c.GetString(OwnerKeyContext)
}

var (
	ledgerStore *store.Store
	reconciler  *autosync.Reconciler
	shareLinks  *share.Registry
)

// Configure wires the controllers to their backing services. It must be
// called once before any route is registered.
func Configure(s *store.Store, r *autosync.Reconciler, links *share.Registry) {
	ledgerStore = s
	reconciler = r
	shareLinks = links
}
