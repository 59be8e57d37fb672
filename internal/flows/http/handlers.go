// Package http exposes the flow generation pipeline and the saved-flow
// history over the versioned API.
package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/flowforge-labs/flowforge-backend/internal/auth"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/domain"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/export"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/service"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/storage"
	"github.com/flowforge-labs/flowforge-backend/internal/plans"
	"github.com/flowforge-labs/flowforge-backend/internal/users"
	"github.com/gin-gonic/gin"
)

// UserDirectory is the slice of the user repository the handlers need.
// *users.Repo satisfies it.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type Handler struct {
	generator *service.Generator
	flows     *storage.FlowStore
	usage     *storage.UsageStore
	users     UserDirectory
}

func New(generator *service.Generator, flows *storage.FlowStore, usage *storage.UsageStore, userRepo UserDirectory) *Handler {
	return &Handler{generator: generator, flows: flows, usage: usage, users: userRepo}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/flows/generate", h.generate)
	rg.POST("/flows", h.save)
	rg.GET("/flows", h.list)
	rg.GET("/flows/:id", h.get)
	rg.PATCH("/flows/:id", h.update)
	rg.DELETE("/flows/:id", h.delete)
	rg.DELETE("/flows/:id/features", h.clearFeatures)
	rg.DELETE("/flows/:id/features/:featureId", h.deleteFeature)
	rg.PATCH("/flows/:id/features/:featureId/nodes/:nodeId", h.updateNode)
	rg.GET("/flows/:id/export", h.exportSVG)
	rg.GET("/user/plan", h.plan)
}

type generateReq struct {
	TextInput string                  `json:"textInput"`
	Images    []service.UploadedImage `json:"images"`
	InputMode string                  `json:"inputMode"`
	Save      bool                    `json:"save"`
	Name      string                  `json:"name"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserDBID(c)
	ctx := c.Request.Context()

	plan := h.resolvePlan(c)
	used, err := h.usage.CurrentMonthCount(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	// The cap is enforced before anything reaches the provider.
	if ok, reason := plans.CanGenerate(plan, used); !ok {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": reason})
		return
	}

	features, err := h.generator.Generate(ctx, service.GenerateInput{
		Text:   req.TextInput,
		Images: req.Images,
		Mode:   service.InputMode(req.InputMode),
	})
	if err != nil {
		c.JSON(service.HTTPStatus(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	if _, err := h.usage.Increment(ctx, userID); err != nil {
		// The generation already succeeded; losing one tick of the advisory
		// counter is better than failing the request.
		log.Printf("usage increment failed for user %s: %v", userID, err)
	}

	resp := gin.H{
		"ok":        true,
		"features":  features,
		"remaining": plans.RemainingGenerations(plan, used+1),
	}

	if req.Save {
		saved, err := h.flows.Save(ctx, userID, features, strings.TrimSpace(req.Name))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		resp["flow"] = saved
	}

	c.JSON(http.StatusOK, resp)
}

type saveReq struct {
	Name     string           `json:"name"`
	Features []domain.Feature `json:"features"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Features) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	saved, err := h.flows.Save(c.Request.Context(), auth.UserDBID(c), req.Features, strings.TrimSpace(req.Name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "flow": saved})
}

func (h *Handler) list(c *gin.Context) {
	flows, err := h.flows.List(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flows": flows})
}

func (h *Handler) get(c *gin.Context) {
	flow, err := h.flows.Get(c.Request.Context(), auth.UserDBID(c), c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flow": flow})
}

type updateReq struct {
	Name     string           `json:"name"`
	Features []domain.Feature `json:"features"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	flow, err := h.flows.Update(c.Request.Context(), auth.UserDBID(c), c.Param("id"),
		strings.TrimSpace(req.Name), req.Features)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flow": flow})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.flows.Delete(c.Request.Context(), auth.UserDBID(c), c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) clearFeatures(c *gin.Context) {
	flow, err := h.flows.ClearFeatures(c.Request.Context(), auth.UserDBID(c), c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flow": flow})
}

func (h *Handler) deleteFeature(c *gin.Context) {
	flow, err := h.flows.DeleteFeature(c.Request.Context(), auth.UserDBID(c),
		c.Param("id"), c.Param("featureId"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flow": flow})
}

type updateNodeReq struct {
	Label   *string  `json:"label"`
	Details []string `json:"details"`
}

func (h *Handler) updateNode(c *gin.Context) {
	var req updateNodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	flow, err := h.flows.UpdateNode(c.Request.Context(), auth.UserDBID(c),
		c.Param("id"), c.Param("featureId"), c.Param("nodeId"),
		domain.NodeUpdate{Label: req.Label, Details: req.Details})
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "flow": flow})
}

func (h *Handler) exportSVG(c *gin.Context) {
	plan := h.resolvePlan(c)
	if !plans.Limits(plan).ExportEnabled {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "export requires a paid plan"})
		return
	}

	flow, err := h.flows.Get(c.Request.Context(), auth.UserDBID(c), c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}

	featureID := c.Query("feature")
	for _, f := range flow.Features {
		if featureID == "" || f.ID == featureID {
			c.Data(http.StatusOK, "image/svg+xml", export.SVG(f.Flow))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "feature not found"})
}

func (h *Handler) plan(c *gin.Context) {
	userID := auth.UserDBID(c)
	plan := h.resolvePlan(c)

	used, err := h.usage.CurrentMonthCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"plan":      plan,
		"planName":  plans.Name(plan),
		"limits":    plans.Limits(plan),
		"used":      used,
		"remaining": plans.RemainingGenerations(plan, used),
	})
}

// resolvePlan reads the tier from Postgres and falls back to the cached
// advisory copy when the database cannot answer.
func (h *Handler) resolvePlan(c *gin.Context) plans.PlanType {
	userID := auth.UserDBID(c)
	ctx := c.Request.Context()

	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return h.usage.CachedPlan(ctx, userID)
	}

	if err := h.usage.CachePlan(ctx, userID, u.Plan); err != nil {
		log.Printf("plan cache refresh failed for user %s: %v", userID, err)
	}
	return u.Plan
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrFlowNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "flow not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}
