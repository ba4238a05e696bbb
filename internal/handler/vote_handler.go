package handler

import (
	"net/http"

	"github.com/blues/cfescrow/internal/logic"
	"github.com/gin-gonic/gin"
)

// VoteHandler 投票处理器
type VoteHandler struct {
	voteLogic *logic.VoteLogic
}

func NewVoteHandler(voteLogic *logic.VoteLogic) *VoteHandler {
	return &VoteHandler{voteLogic: voteLogic}
}

// Vote 投票
func (h *VoteHandler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	call := callFrom(c)
	if err := h.voteLogic.Vote(c.Request.Context(), call, c.Param("name"), *req.Choice); err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "投票成功", VoteResponse{Voter: call.Caller, Choice: *req.Choice})
}

// GetVote 获取某地址的投票
func (h *VoteHandler) GetVote(c *gin.Context) {
	voter := c.Param("voter")
	choice, err := h.voteLogic.GetVote(c.Request.Context(), c.Param("name"), voter)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取投票成功", VoteResponse{Voter: voter, Choice: choice})
}

// GetVotingState 获取投票统计
func (h *VoteHandler) GetVotingState(c *gin.Context) {
	tally, err := h.voteLogic.GetVotingState(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取投票统计成功", VotingStateResponse{
		OvrVotedYes: tally.Yes.String(),
		OvrVotedNo:  tally.No.String(),
	})
}

// GetProjectVoteRecords 获取项目投票记录
func (h *VoteHandler) GetProjectVoteRecords(c *gin.Context) {
	page, pageSize := pageParams(c)

	records, total, err := h.voteLogic.GetProjectVoteRecords(c.Request.Context(), c.Param("name"), page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取投票记录成功", GetProjectVoteRecordsResponse{
		Records:    ToVoteRecordResponseList(records),
		Pagination: newPagination(page, pageSize, total),
	})
}
