package controllers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stay-booking/logger"
	"stay-booking/middleware"
	"stay-booking/realtime"
	"stay-booking/services"
)

type WishlistController struct {
	Svc       *services.WishlistService
	Users     *services.UserService
	Hub       *realtime.Hub
	Sequencer *realtime.Sequencer
	Heartbeat time.Duration
}

func NewWishlistController(svc *services.WishlistService, users *services.UserService, hub *realtime.Hub, seq *realtime.Sequencer) *WishlistController {
	return &WishlistController{Svc: svc, Users: users, Hub: hub, Sequencer: seq, Heartbeat: 25 * time.Second}
}

// GET /api/wishlist
func (ctl *WishlistController) Get(c *gin.Context) {
	ids := ctl.Svc.Get(c.Request.Context(), middleware.Identity(c))
	c.JSON(http.StatusOK, gin.H{"data": ids})
}

// POST /api/wishlist/:experienceId/toggle
func (ctl *WishlistController) Toggle(c *gin.Context) {
	expID := c.Param("experienceId")
	present, err := ctl.Svc.Toggle(c.Request.Context(), middleware.Identity(c), expID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"experience_id": expID, "wishlisted": present}})
}

type wishlistFrame struct {
	Seq          int64    `json:"seq"`
	IDs          []string `json:"ids"`
	Op           string   `json:"op,omitempty"`
	ExperienceID string   `json:"experience_id,omitempty"`
}

// GET /api/wishlist/stream sends a snapshot, then one change frame per applied event.
// A reload caused by a sequence gap is sent as a fresh snapshot.
func (ctl *WishlistController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := ctl.Users.Resolve(ctx, middleware.Identity(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	// Subscribe before the first load so no event falls between snapshot and stream.
	events, release := ctl.Hub.Subscribe(user.ID)
	defer release()

	view := realtime.NewWishlistView(func(ctx context.Context) ([]string, int64, error) {
		seq, err := ctl.Sequencer.Current(ctx, user.ID)
		if err != nil {
			return nil, 0, services.FetchError{Op: "wishlist sequence", Err: err}
		}
		ids, err := ctl.Svc.ListForUser(ctx, user.ID)
		return ids, seq, err
	})
	if err := view.Reload(ctx); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("snapshot", wishlistFrame{Seq: view.Seq(), IDs: view.IDs()})
	c.Writer.Flush()

	heartbeat := time.NewTicker(ctl.Heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case ev, ok := <-events:
			if !ok {
				return false
			}
			before := view.Seq()
			reloaded, err := view.Apply(ctx, ev)
			if err != nil {
				logger.L().Warn("wishlist stream reload failed",
					zap.String("user_id", user.ID), zap.Error(err))
				c.SSEvent("error", gin.H{"code": "error.fetch", "message": "failed to refresh wishlist"})
				return false
			}
			switch {
			case reloaded:
				c.SSEvent("snapshot", wishlistFrame{Seq: view.Seq(), IDs: view.IDs()})
			case view.Seq() != before:
				c.SSEvent("change", wishlistFrame{Seq: view.Seq(), IDs: view.IDs(), Op: ev.Op, ExperienceID: ev.ExperienceID})
			}
			return true
		}
	})
}
