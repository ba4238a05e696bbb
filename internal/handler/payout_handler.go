package handler

import (
	"net/http"

	"github.com/blues/cfescrow/internal/logic"
	"github.com/gin-gonic/gin"
)

// PayoutHandler 领取和退款处理器
type PayoutHandler struct {
	payoutLogic *logic.PayoutLogic
}

func NewPayoutHandler(payoutLogic *logic.PayoutLogic) *PayoutHandler {
	return &PayoutHandler{payoutLogic: payoutLogic}
}

// Claim 作者领取募集资金
func (h *PayoutHandler) Claim(c *gin.Context) {
	if err := h.payoutLogic.Claim(c.Request.Context(), callFrom(c), c.Param("name")); err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "领取成功", FlagResponse{Done: true})
}

// GetAuthorClaimed 作者是否已领取
func (h *PayoutHandler) GetAuthorClaimed(c *gin.Context) {
	claimed, err := h.payoutLogic.GetAuthorClaimed(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取领取状态成功", FlagResponse{Done: claimed})
}

// Refund 捐款人退款
func (h *PayoutHandler) Refund(c *gin.Context) {
	if err := h.payoutLogic.Refund(c.Request.Context(), callFrom(c), c.Param("name")); err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "退款成功", FlagResponse{Done: true})
}

// GetDonorRefunded 捐款人是否已退款
func (h *PayoutHandler) GetDonorRefunded(c *gin.Context) {
	refunded, err := h.payoutLogic.GetDonorRefunded(c.Request.Context(), c.Param("name"), c.Param("donor"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取退款状态成功", FlagResponse{Done: refunded})
}

// GetProjectSettlements 获取项目结算和退款记录
func (h *PayoutHandler) GetProjectSettlements(c *gin.Context) {
	page, pageSize := pageParams(c)

	settlements, err := h.payoutLogic.GetProjectSettlements(c.Request.Context(), c.Param("name"), page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取结算记录成功", ToSettlementsResponse(settlements, page, pageSize))
}
