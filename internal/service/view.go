package service

import (
	"context"

	"ngl-chats/internal/store"
	"ngl-chats/internal/view"
)

// ViewService 从 Store 快照构建各个页面的数据。
type ViewService struct {
	store *store.Store
}

// NewViewService 创建 ViewService 实例。
func NewViewService(st *store.Store) *ViewService {
	if st == nil {
		panic("Store cannot be nil for ViewService")
	}
	return &ViewService{store: st}
}

// GroupList 返回群组列表页数据。
func (s *ViewService) GroupList(ctx context.Context) (view.GroupList, error) {
	if _, err := requireUser(s.store); err != nil {
		return view.GroupList{}, err
	}
	return view.BuildGroupList(s.store.Snapshot()), nil
}

// GroupDetail 返回群组详情页数据。
func (s *ViewService) GroupDetail(ctx context.Context, groupID string) (view.GroupDetail, error) {
	if _, err := requireUser(s.store); err != nil {
		return view.GroupDetail{}, err
	}
	detail, err := view.BuildGroupDetail(s.store.Snapshot(), groupID)
	if err != nil {
		return view.GroupDetail{}, mapStoreError(err)
	}
	return detail, nil
}

// Profile 返回个人主页数据。
func (s *ViewService) Profile(ctx context.Context) (view.Profile, error) {
	p, ok := view.BuildProfile(s.store.Snapshot())
	if !ok {
		return view.Profile{}, ErrNotLoggedIn
	}
	return p, nil
}
