package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kindred/kcf/internal/logic"
	"github.com/kindred/kcf/internal/model"
)

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

func NewCampaignHandler(campaignLogic *logic.CampaignLogic) *CampaignHandler {
	return &CampaignHandler{campaignLogic: campaignLogic}
}

// GetCampaigns 获取活动列表。
// 支持 search、categories（逗号分隔）、sort 查询参数。
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	var (
		campaigns []logic.CampaignSummary
		err       error
	)
	if search != "" {
		campaigns, err = h.campaignLogic.Search(search)
	} else {
		campaigns, err = h.campaignLogic.ListActive()
	}
	if err != nil {
		handleError(c, err)
		return
	}

	opts := logic.ListingOptions{
		SortBy: logic.SortKey(c.DefaultQuery("sort", string(logic.SortNewest))),
	}
	if categories := strings.TrimSpace(c.Query("categories")); categories != "" {
		opts.Categories = strings.Split(categories, ",")
	}
	campaigns = logic.ApplyListing(campaigns, opts)

	SuccessResponse(c, http.StatusOK, "获取活动列表成功", gin.H{
		"campaigns": campaigns,
		"total":     len(campaigns),
	})
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动详情成功", h.toDetailResponse(campaign))
}

// GetMyCampaigns 获取当前用户的全部活动
func (h *CampaignHandler) GetMyCampaigns(c *gin.Context) {
	campaigns, err := h.campaignLogic.ListByOwner(currentUserId(c))
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动列表成功", gin.H{
		"campaigns": campaigns,
		"total":     len(campaigns),
	})
}

// CreateCampaign 创建活动，multipart表单可携带媒体文件
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var form struct {
		Title            string  `form:"title"`
		ShortDescription string  `form:"short_description"`
		Story            string  `form:"story"`
		Category         string  `form:"category"`
		TargetAmount     float64 `form:"target_amount"`
		EndDate          string  `form:"end_date"`
		OrganizerName    string  `form:"organizer_name"`
		OrganizerBio     string  `form:"organizer_bio"`
		IsPublic         *bool   `form:"is_public"`
	}
	if err := c.ShouldBind(&form); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	endDate, err := time.Parse(time.RFC3339, form.EndDate)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的截止日期格式")
		return
	}

	input := logic.CreateCampaignInput{
		Title:            form.Title,
		ShortDescription: form.ShortDescription,
		Story:            form.Story,
		Category:         form.Category,
		TargetAmount:     form.TargetAmount,
		EndDate:          endDate,
		OrganizerName:    form.OrganizerName,
		OrganizerBio:     form.OrganizerBio,
		IsPublic:         form.IsPublic == nil || *form.IsPublic,
	}

	files, closeFiles, err := openMediaFiles(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	defer closeFiles()

	campaign, uploaded, err := h.campaignLogic.CreateCampaign(currentUserId(c), input, files)
	if err != nil {
		handleError(c, err)
		return
	}

	// 保存后的媒体列表重新加载，带上落库的排序和封面标记
	created, err := h.campaignLogic.GetCampaign(campaign.Id)
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", gin.H{
		"campaign":       h.toDetailResponse(created),
		"uploaded_media": uploaded,
	})
}

// UpdateCampaign 更新活动
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 只允许更新特定字段
	var updateData struct {
		Title            *string  `json:"title"`
		ShortDescription *string  `json:"short_description"`
		Story            *string  `json:"story"`
		Category         *string  `json:"category"`
		TargetAmount     *float64 `json:"target_amount"`
		EndDate          *string  `json:"end_date"`
		OrganizerName    *string  `json:"organizer_name"`
		OrganizerBio     *string  `json:"organizer_bio"`
		IsPublic         *bool    `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if updateData.Title != nil {
		updates["title"] = *updateData.Title
	}
	if updateData.ShortDescription != nil {
		updates["short_description"] = *updateData.ShortDescription
	}
	if updateData.Story != nil {
		updates["story"] = *updateData.Story
	}
	if updateData.Category != nil {
		updates["category"] = *updateData.Category
	}
	if updateData.TargetAmount != nil {
		updates["target_amount"] = *updateData.TargetAmount
	}
	if updateData.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *updateData.EndDate)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "无效的截止日期格式")
			return
		}
		updates["end_date"] = endDate
	}
	if updateData.OrganizerName != nil {
		updates["organizer_name"] = *updateData.OrganizerName
	}
	if updateData.OrganizerBio != nil {
		updates["organizer_bio"] = *updateData.OrganizerBio
	}
	if updateData.IsPublic != nil {
		updates["is_public"] = *updateData.IsPublic
	}

	if err := h.campaignLogic.UpdateCampaign(currentUserId(c), id, updates); err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动更新成功", nil)
}

// DeleteCampaign 删除活动
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	if err := h.campaignLogic.DeleteCampaign(currentUserId(c), id); err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动已删除", nil)
}

// SetCampaignStatus 切换活动的进行中/草稿状态
func (h *CampaignHandler) SetCampaignStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.campaignLogic.SetCampaignStatus(currentUserId(c), id, model.CampaignStatus(body.Status)); err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动状态更新成功", nil)
}

// AddMedia 为活动追加媒体文件
func (h *CampaignHandler) AddMedia(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "缺少媒体文件")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无法读取媒体文件")
		return
	}
	defer file.Close()

	media, err := h.campaignLogic.AddMedia(currentUserId(c), id, logic.MediaFile{
		Filename: fileHeader.Filename,
		FileType: mediaTypeOf(fileHeader),
		Caption:  c.PostForm("caption"),
		Reader:   file,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "媒体上传成功",
		ToMediaResponse(media, h.campaignLogic.MediaURL(media.FilePath)))
}

// RemoveMedia 删除媒体文件
func (h *CampaignHandler) RemoveMedia(c *gin.Context) {
	mediaId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的媒体ID")
		return
	}

	if err := h.campaignLogic.RemoveMedia(currentUserId(c), mediaId); err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "媒体已删除", nil)
}

// SetCoverMedia 设置活动封面
func (h *CampaignHandler) SetCoverMedia(c *gin.Context) {
	mediaId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的媒体ID")
		return
	}

	if err := h.campaignLogic.SetCoverMedia(currentUserId(c), mediaId); err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "封面设置成功", nil)
}

func (h *CampaignHandler) toDetailResponse(campaign *model.Campaign) CampaignDetailResponse {
	media := make([]MediaResponse, len(campaign.Media))
	for i, m := range campaign.Media {
		media[i] = ToMediaResponse(&m, h.campaignLogic.MediaURL(m.FilePath))
	}
	return CampaignDetailResponse{
		ID:               campaign.Id,
		Title:            campaign.Title,
		ShortDescription: campaign.ShortDescription,
		Story:            campaign.Story,
		Category:         campaign.Category,
		TargetAmount:     campaign.TargetAmount,
		CurrentAmount:    campaign.CurrentAmount,
		BackerCount:      campaign.BackerCount,
		DaysLeft:         logic.DaysLeft(campaign.EndDate, time.Now()),
		EndDate:          campaign.EndDate,
		OrganizerName:    campaign.OrganizerName,
		OrganizerBio:     campaign.OrganizerBio,
		IsPublic:         campaign.IsPublic,
		Status:           string(campaign.Status),
		UserID:           campaign.UserId,
		CoverURL:         h.campaignLogic.CoverURL(campaign.Media),
		Media:            media,
		CreatedAt:        campaign.CreatedAt,
		UpdatedAt:        campaign.UpdatedAt,
	}
}

// openMediaFiles 打开multipart表单中的全部媒体文件
func openMediaFiles(c *gin.Context) ([]logic.MediaFile, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// 非multipart请求时允许不带媒体
		return nil, func() {}, nil
	}

	headers := form.File["media"]
	captions := form.Value["captions"]

	files := make([]logic.MediaFile, 0, len(headers))
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for i, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)

		caption := ""
		if i < len(captions) {
			caption = captions[i]
		}
		files = append(files, logic.MediaFile{
			Filename: header.Filename,
			FileType: mediaTypeOf(header),
			Caption:  caption,
			Reader:   f,
		})
	}
	return files, closeAll, nil
}

// mediaTypeOf 根据Content-Type区分图片和视频，默认按图片处理
func mediaTypeOf(header *multipart.FileHeader) model.MediaType {
	if strings.HasPrefix(header.Header.Get("Content-Type"), "video/") {
		return model.MediaTypeVideo
	}
	return model.MediaTypeImage
}
