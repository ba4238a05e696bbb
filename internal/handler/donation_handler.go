package handler

import (
	"net/http"

	"github.com/blues/cfescrow/internal/logic"
	"github.com/gin-gonic/gin"
)

// DonationHandler 捐款处理器
type DonationHandler struct {
	donationLogic *logic.DonationLogic
}

func NewDonationHandler(donationLogic *logic.DonationLogic) *DonationHandler {
	return &DonationHandler{donationLogic: donationLogic}
}

// Donate 捐款
func (h *DonationHandler) Donate(c *gin.Context) {
	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	name := c.Param("name")
	call := callFrom(c)
	if err := h.donationLogic.Donate(c.Request.Context(), call, name, req.Value, req.TxHash); err != nil {
		HandleError(c, err)
		return
	}

	donated, err := h.donationLogic.GetDonatedAmount(c.Request.Context(), name, call.Caller)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "捐款成功", AmountResponse{Amount: donated.String()})
}

// GetDonatedAmount 获取某地址的累计捐款
func (h *DonationHandler) GetDonatedAmount(c *gin.Context) {
	donated, err := h.donationLogic.GetDonatedAmount(c.Request.Context(), c.Param("name"), c.Param("donor"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取捐款金额成功", AmountResponse{Amount: donated.String()})
}

// GetProjectContributeRecords 获取项目捐款记录
func (h *DonationHandler) GetProjectContributeRecords(c *gin.Context) {
	page, pageSize := pageParams(c)

	records, total, err := h.donationLogic.GetProjectContributeRecords(c.Request.Context(), c.Param("name"), page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取捐款记录成功", GetProjectContributeRecordsResponse{
		Records:    ToContributeRecordResponseList(records),
		Pagination: newPagination(page, pageSize, total),
	})
}
