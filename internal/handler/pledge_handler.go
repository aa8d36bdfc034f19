package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kindred/kcf/internal/logic"
)

type PledgeHandler struct {
	pledgeLogic *logic.PledgeLogic
}

func NewPledgeHandler(pledgeLogic *logic.PledgeLogic) *PledgeHandler {
	return &PledgeHandler{pledgeLogic: pledgeLogic}
}

// CreatePledge 为活动创建认捐
func (h *PledgeHandler) CreatePledge(c *gin.Context) {
	var body struct {
		CampaignId int64   `json:"campaign_id"`
		Amount     float64 `json:"amount"`
		PledgeDate string  `json:"pledge_date"`
		Message    string  `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	pledgeDate, err := time.Parse(time.RFC3339, body.PledgeDate)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的认捐日期格式")
		return
	}

	pledge, err := h.pledgeLogic.CreatePledge(
		currentUserId(c), body.CampaignId, body.Amount, pledgeDate, body.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "认捐成功", ToPledgeResponse(pledge))
}

// CancelPledge 取消认捐
func (h *PledgeHandler) CancelPledge(c *gin.Context) {
	pledgeId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的认捐ID")
		return
	}

	if err := h.pledgeLogic.CancelPledge(currentUserId(c), pledgeId); err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "认捐已取消", nil)
}

// ConvertPledge 将认捐兑现为捐款
func (h *PledgeHandler) ConvertPledge(c *gin.Context) {
	pledgeId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的认捐ID")
		return
	}

	donation, err := h.pledgeLogic.ConvertToDonation(currentUserId(c), pledgeId)
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "认捐已兑现", ToDonationResponse(donation))
}

// GetMyPledges 获取当前用户的认捐记录
func (h *PledgeHandler) GetMyPledges(c *gin.Context) {
	pledges, err := h.pledgeLogic.GetUserPledges(currentUserId(c))
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取认捐记录成功", gin.H{
		"pledges": ToPledgeResponseList(pledges),
		"total":   len(pledges),
	})
}
