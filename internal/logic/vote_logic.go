package logic

import (
	"context"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/model"
)

// VoteLogic 投票业务逻辑
type VoteLogic struct {
	engine  *escrow.Engine
	records Records
}

func NewVoteLogic(engine *escrow.Engine, records Records) *VoteLogic {
	return &VoteLogic{engine: engine, records: records}
}

func (v *VoteLogic) Vote(ctx context.Context, call escrow.Call, name string, choice bool) error {
	return v.engine.Vote(ctx, call, name, choice)
}

func (v *VoteLogic) GetVote(ctx context.Context, name, voter string) (bool, error) {
	return v.engine.GetVote(ctx, name, voter)
}

func (v *VoteLogic) GetVotingState(ctx context.Context, name string) (escrow.Tally, error) {
	return v.engine.VotingState(ctx, name)
}

// GetProjectVoteRecords 分页获取投票记录
func (v *VoteLogic) GetProjectVoteRecords(ctx context.Context, name string, page, pageSize int) ([]model.VoteRecordModel, int64, error) {
	if v.records == nil {
		return nil, 0, ErrRecordsUnavailable
	}
	if _, err := v.engine.Project(ctx, name); err != nil {
		return nil, 0, err
	}
	return v.records.VoteRecords(ctx, name, page, pageSize)
}
