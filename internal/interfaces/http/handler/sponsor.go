package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novacoinotc/claudewallet/internal/core/application"
)

type SponsorHandler struct {
	sponsorSvc *application.SponsorService
	buildInfo  application.BuildInfo
}

func NewSponsorHandler(
	sponsorSvc *application.SponsorService, buildInfo application.BuildInfo,
) *SponsorHandler {
	return &SponsorHandler{sponsorSvc, buildInfo}
}

func (h *SponsorHandler) Status(c *gin.Context) {
	status, err := h.sponsorSvc.Status(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":         status.Address,
		"ready":           status.Ready,
		"energyAvailable": status.EnergyAvailable,
		"energyLimit":     status.EnergyLimit,
		"energyFloor":     status.EnergyFloor,
		"trxBalance":      status.TrxBalance,
	})
}

func (h *SponsorHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.buildInfo.Version,
		"commit":  h.buildInfo.Commit,
	})
}
