package affiliates

import (
	"net/http"

	"github.com/PancyStudios/GeoGateGo/internal/handlers/respond"
	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	"github.com/PancyStudios/GeoGateGo/internal/workflows/affiliates"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

type handler struct {
	store   Store
	manager *affiliates.Manager
}

// exceptionView adds the rendered scope and bypass lines to an exception
type exceptionView struct {
	models.AffiliateException
	Scope  string `json:"scope"`
	Bypass string `json:"bypass"`
}

// exceptionRequest carries raw identifiers; omitted fields keep their current value
type exceptionRequest struct {
	Identifiers        *[]string                  `json:"identifiers"`
	BypassRestrictions *models.BypassRestrictions `json:"bypassRestrictions"`
	Enabled            *bool                      `json:"enabled"`
	Countries          *[]string                  `json:"countries"`
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

type classifyRequest struct {
	Value string `json:"value"`
}

func view(a models.AffiliateException) exceptionView {
	return exceptionView{
		AffiliateException: a,
		Scope:              affiliates.DescribeScope(a.Countries),
		Bypass:             affiliates.DescribeBypass(a.BypassRestrictions),
	}
}

func views(list []models.AffiliateException) []exceptionView {
	out := make([]exceptionView, len(list))
	for i, a := range list {
		out[i] = view(a)
	}
	return out
}

// apply replays the request on the draft through the draft's own edit operations
func (r exceptionRequest) apply(d *affiliates.Draft) error {
	if r.Identifiers != nil {
		for range d.Exception().Identifiers {
			if err := d.RemoveIdentifier(0); err != nil {
				return err
			}
		}
		for _, raw := range *r.Identifiers {
			if _, err := d.AddIdentifier(raw); err != nil {
				return err
			}
		}
	}
	if r.Countries != nil {
		for _, code := range d.Exception().Countries {
			if err := d.ToggleCountry(code); err != nil {
				return err
			}
		}
		seen := make(map[string]bool, len(*r.Countries))
		for _, code := range *r.Countries {
			if seen[code] {
				continue
			}
			seen[code] = true
			if err := d.ToggleCountry(code); err != nil {
				return err
			}
		}
	}
	if r.BypassRestrictions != nil {
		d.SetBypass(r.BypassRestrictions.GeoBlocking, r.BypassRestrictions.TimeRestrictions)
	}
	if r.Enabled != nil {
		d.SetEnabled(*r.Enabled)
	}
	return nil
}

func (h *handler) list(c *gin.Context) {
	current, ok := respond.Current(c, h.store)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"affiliateExceptions": views(current.AffiliateExceptions)})
}

func (h *handler) create(c *gin.Context) {
	var req exceptionRequest
	if !respond.Bind(c, &req) {
		return
	}
	draft := affiliates.Create()
	if err := req.apply(draft); err != nil {
		respond.Error(c, err)
		return
	}

	if !h.refresh(c) {
		return
	}
	saved, err := h.manager.Save(c.Request.Context(), draft)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"affiliateException":  view(draft.Exception()),
		"affiliateExceptions": views(saved.AffiliateExceptions),
	})
}

func (h *handler) update(c *gin.Context) {
	var req exceptionRequest
	if !respond.Bind(c, &req) {
		return
	}
	if !h.refresh(c) {
		return
	}
	existing, found := h.manager.Find(c.Param("id"))
	if !found {
		respond.Error(c, models.ErrNotFound)
		return
	}
	draft := affiliates.Edit(existing)
	if err := req.apply(draft); err != nil {
		respond.Error(c, err)
		return
	}

	saved, err := h.manager.Save(c.Request.Context(), draft)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{
		"affiliateException":  view(draft.Exception()),
		"affiliateExceptions": views(saved.AffiliateExceptions),
	})
}

func (h *handler) remove(c *gin.Context) {
	if !h.refresh(c) {
		return
	}
	saved, err := h.manager.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"affiliateExceptions": views(saved.AffiliateExceptions)})
}

func (h *handler) setEnabled(c *gin.Context) {
	var req enabledRequest
	if !respond.Bind(c, &req) {
		return
	}
	if req.Enabled == nil {
		respond.Error(c, models.NewValidationError("enabled", "is required"))
		return
	}
	if !h.refresh(c) {
		return
	}
	saved, err := h.manager.ToggleEnabled(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"affiliateExceptions": views(saved.AffiliateExceptions)})
}

// classify reports how a raw identifier would be stored
func (h *handler) classify(c *gin.Context) {
	var req classifyRequest
	if !respond.Bind(c, &req) {
		return
	}
	id, err := models.ClassifyIdentifier(req.Value)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"identifier": id})
}

// refresh adopts the persisted list unless a write is already running
func (h *handler) refresh(c *gin.Context) bool {
	if h.manager.Saving() {
		respond.Error(c, workflows.ErrSaveInProgress)
		return false
	}
	current, ok := respond.Current(c, h.store)
	if !ok {
		return false
	}
	h.manager.Sync(current.AffiliateExceptions)
	return true
}
