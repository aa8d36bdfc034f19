package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kindred/kcf/internal/logic"
)

type DonationHandler struct {
	donationLogic *logic.DonationLogic
}

func NewDonationHandler(donationLogic *logic.DonationLogic) *DonationHandler {
	return &DonationHandler{donationLogic: donationLogic}
}

// CreateDonation 为活动捐款
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var body struct {
		CampaignId  int64   `json:"campaign_id"`
		Amount      float64 `json:"amount"`
		Message     string  `json:"message"`
		IsAnonymous bool    `json:"is_anonymous"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	donation, err := h.donationLogic.CreateDonation(
		currentUserId(c), body.CampaignId, body.Amount, body.Message, body.IsAnonymous)
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "捐款成功", ToDonationResponse(donation))
}

// GetMyDonations 获取当前用户的捐款记录
func (h *DonationHandler) GetMyDonations(c *gin.Context) {
	donations, err := h.donationLogic.GetUserDonations(currentUserId(c))
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取捐款记录成功", gin.H{
		"donations": ToDonationResponseList(donations),
		"total":     len(donations),
	})
}

// GetCampaignDonations 获取活动收到的捐款记录
func (h *DonationHandler) GetCampaignDonations(c *gin.Context) {
	campaignId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	donations, err := h.donationLogic.GetCampaignDonations(campaignId)
	if err != nil {
		handleError(c, err)
		return
	}

	// 匿名捐款对外隐藏捐款人
	result := ToDonationResponseList(donations)
	for i := range result {
		if result[i].IsAnonymous {
			result[i].UserID = 0
		}
	}

	SuccessResponse(c, http.StatusOK, "获取捐款记录成功", gin.H{
		"donations": result,
		"total":     len(result),
	})
}
