// Package share implements shareable, revocable salary slips.
//
// A share link is a capability: knowing the token grants read access to
// exactly one worker's monthly slip, without authentication. The registry
// manages the links, the projector renders the slip a token resolves to.
package share

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/house-help/backend/internal/models"
)

var ErrShareLinkNotFound = fmt.Errorf("%w share link matching your query", models.ErrResourceNotFound)

// Registry manages the share links of all owners.
type Registry struct {
	baseURL  string
	validity time.Duration
}

// NewRegistry returns a registry. Links expire after validityDays, zero
// means links never expire.
func NewRegistry(baseURL string, validityDays int) *Registry {
	return &Registry{
		baseURL:  strings.TrimRight(baseURL, "/"),
		validity: time.Duration(validityDays) * 24 * time.Hour,
	}
}

// URL returns the shareable URL for a token.
func (r *Registry) URL(token string) string {
	return fmt.Sprintf("%s/share/%s", r.baseURL, token)
}

// Mint returns a share link for the worker.
//
// Minting is idempotent per worker: when a usable link already exists it is
// returned instead of creating a second one, so sharing twice hands out the
// same URL. Revoked or expired links are never resurrected, a new token is
// minted instead.
func (r *Registry) Mint(ownerKey string, workerID uuid.UUID) (models.ShareLink, error) {
	var existing []models.ShareLink
	err := models.DB.Where(&models.ShareLink{OwnerKey: ownerKey, WorkerID: workerID}).Find(&existing).Error
	if err != nil {
		return models.ShareLink{}, err
	}

	now := time.Now().In(time.UTC)
	for _, link := range existing {
		if link.Usable(now) {
			return link, nil
		}
	}

	link := models.ShareLink{
		// The token must be unguessable, its dashes carry no information
		Token:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		OwnerKey: ownerKey,
		WorkerID: workerID,
	}

	if r.validity > 0 {
		expiresAt := now.Add(r.validity)
		link.ExpiresAt = &expiresAt
	}

	err = models.DB.Create(&link).Error
	if err != nil {
		return models.ShareLink{}, err
	}

	return link, nil
}

// List returns all share links of the owner, including revoked and expired
// ones so that owners can audit what they handed out.
func (r *Registry) List(ownerKey string) ([]models.ShareLink, error) {
	links := []models.ShareLink{}
	err := models.DB.Where(&models.ShareLink{OwnerKey: ownerKey}).Order("created_at desc").Find(&links).Error
	if err != nil {
		return nil, err
	}

	return links, nil
}

// Revoke marks a link as revoked. Revocation is permanent and owner
// scoped: a token that belongs to another owner is treated as not found.
func (r *Registry) Revoke(ownerKey, token string) error {
	var link models.ShareLink
	err := models.DB.First(&link, "token = ? AND owner_key = ?", token, ownerKey).Error
	if err != nil {
		return err
	}

	return models.DB.Model(&link).Update("revoked", true).Error
}

// Resolve returns the link a token grants access to.
//
// A revoked or expired link resolves exactly like a token that never
// existed, so callers cannot distinguish the two cases.
func (r *Registry) Resolve(token string) (models.ShareLink, error) {
	var link models.ShareLink
	err := models.DB.First(&link, "token = ?", token).Error
	if err != nil {
		return models.ShareLink{}, ErrShareLinkNotFound
	}

	if !link.Usable(time.Now().In(time.UTC)) {
		return models.ShareLink{}, ErrShareLinkNotFound
	}

	return link, nil
}
