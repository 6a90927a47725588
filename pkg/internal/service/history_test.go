package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
)

// TestHistoryRecordsLifecycle 创建、更新、删除在历史里各留一条，且按时间倒序.
func TestHistoryRecordsLifecycle(t *testing.T) {
	ctx := newTestContext(t)
	regSvc := NewRegulationService(ctx)
	histSvc := NewHistoryService(ctx)

	info, err := regSvc.Create(ctx, types.CreateRegulationRequest{Code: "EN 50549-2", Name: "欧洲中压并网"}, "tester")
	require.NoError(t, err)

	_, err = regSvc.Update(ctx, info.ID, types.UpdateRegulationRequest{Name: strPtr("欧洲中压并网 修订")}, "tester")
	require.NoError(t, err)

	_, err = regSvc.Delete(ctx, info.ID, "tester")
	require.NoError(t, err)

	listed, err := histSvc.List(ctx, types.ListHistoryRequest{RegulationID: info.ID})
	require.NoError(t, err)
	require.Equal(t, 3, listed.Total)

	// 最近的操作排最前
	assert.Equal(t, model.ActionDelete, listed.History[0].Action)
	assert.Equal(t, model.ActionCreate, listed.History[2].Action)

	// 删除记录带操作前快照，删除后仍可追溯
	assert.Contains(t, listed.History[0].Snapshot, "EN 50549-2")

	// 按动作过滤
	updates, err := histSvc.List(ctx, types.ListHistoryRequest{RegulationID: info.ID, Action: model.ActionUpdate})
	require.NoError(t, err)
	require.Equal(t, 1, updates.Total)
	assert.Contains(t, updates.History[0].Field, "name")
}
