package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/house-help/backend/internal/httputil"
	"github.com/house-help/backend/internal/models"
)

// ShareLink is the owner-facing representation of a share link.
type ShareLink struct {
	Token     string     `json:"token" example:"3b1ea324d4384419882a2fc91d71772f"`
	URL       string     `json:"url" example:"https://example.com/share/3b1ea324d4384419882a2fc91d71772f"`
	WorkerID  uuid.UUID  `json:"workerId"`
	ExpiresAt *time.Time `json:"expiresAt"` // null means the link never expires
	Revoked   bool       `json:"revoked" example:"false"`
	CreatedAt time.Time  `json:"createdAt"`
}

func newShareLink(model models.ShareLink) ShareLink {
	return ShareLink{
		Token:     model.Token,
		URL:       shareLinks.URL(model.Token),
		WorkerID:  model.WorkerID,
		ExpiresAt: model.ExpiresAt,
		Revoked:   model.Revoked,
		CreatedAt: model.CreatedAt,
	}
}

type ShareLinkResponse struct {
	Data  *ShareLink `json:"data"`                                                     // Data for the share link
	Error *string    `json:"error" example:"there is no worker matching your query"` // The error, if any occurred
}

type ShareLinkListResponse struct {
	Data  []ShareLink `json:"data"`                                                        // List of share links
	Error *string     `json:"error" example:"there is no share link matching your query"` // The error, if any occurred
}

// RegisterShareRoutes registers the routes for managing share links with
// the RouterGroup that is passed.
func RegisterShareRoutes(mint, links *gin.RouterGroup) {
	// Minting hangs off the worker
	{
		mint.OPTIONS("/share", OptionsShareMint)
		mint.POST("/share", CreateShareLink)
	}

	// Link management
	{
		links.OPTIONS("", OptionsShareLinkList)
		links.GET("", GetShareLinks)
		links.OPTIONS("/:token", OptionsShareLinkDetail)
		links.DELETE("/:token", RevokeShareLink)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Sharing
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workers/{id}/share [options]
func OptionsShareMint(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Sharing
// @Success		204
// @Router			/v1/share-links [options]
func OptionsShareLinkList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Sharing
// @Success		204
// @Param			token	path	string	true	"Token of the share link"
// @Router			/v1/share-links/{token} [options]
func OptionsShareLinkDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Share worker
// @Description	Returns a share link for the worker's salary slip. Sharing the same worker again returns the existing link instead of minting a second one.
// @Tags			Sharing
// @Produce		json
// @Success		201	{object}	ShareLinkResponse
// @Failure		400	{object}	ShareLinkResponse
// @Failure		404	{object}	ShareLinkResponse
// @Failure		500	{object}	ShareLinkResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workers/{id}/share [post]
func CreateShareLink(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ShareLinkResponse{
			Error: &s,
		})
		return
	}

	l, err := ledgerStore.Load(ownerKey(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ShareLinkResponse{
			Error: &s,
		})
		return
	}

	if _, ok := l.Worker(uri.ID.UUID); !ok {
		c.JSON(http.StatusNotFound, ShareLinkResponse{
			Error: strPtr("there is no worker matching your query"),
		})
		return
	}

	link, err := shareLinks.Mint(ownerKey(c), uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ShareLinkResponse{
			Error: &s,
		})
		return
	}

	data := newShareLink(link)
	c.JSON(http.StatusCreated, ShareLinkResponse{Data: &data})
}

// @Summary		Get share links
// @Description	Returns all share links of the caller, including revoked and expired ones
// @Tags			Sharing
// @Produce		json
// @Success		200	{object}	ShareLinkListResponse
// @Failure		500	{object}	ShareLinkListResponse
// @Router			/v1/share-links [get]
func GetShareLinks(c *gin.Context) {
	links, err := shareLinks.List(ownerKey(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ShareLinkListResponse{
			Error: &s,
		})
		return
	}

	data := make([]ShareLink, 0, len(links))
	for _, link := range links {
		data = append(data, newShareLink(link))
	}

	c.JSON(http.StatusOK, ShareLinkListResponse{Data: data})
}

// @Summary		Revoke share link
// @Description	Revokes a share link. Revocation is permanent, the token afterwards behaves exactly like one that never existed.
// @Tags			Sharing
// @Success		204
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			token	path	string	true	"Token of the share link"
// @Router			/v1/share-links/{token} [delete]
func RevokeShareLink(c *gin.Context) {
	var uri URIToken
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = shareLinks.Revoke(ownerKey(c), uri.Token)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
