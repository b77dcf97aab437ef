package store

import (
	"time"

	"ngl-chats/internal/domain"
)

// Seed 装入演示数据：联系人、三个群组、成员关系和几条消息。
// 会覆盖除当前用户之外的全部集合。
func (s *Store) Seed(now time.Time) {
	contacts := []domain.User{
		{ID: "u2", Username: "campus_queen", Email: "queen@college.edu", AvatarColor: "bg-rose-500"},
		{ID: "u3", Username: "gym_rat_99", Email: "gains@college.edu", AvatarColor: "bg-emerald-600"},
		{ID: "u4", Username: "study_buddy", Email: "books@college.edu", AvatarColor: "bg-sky-500"},
		{ID: "u5", Username: "party_animal", Email: "lit@college.edu", AvatarColor: "bg-amber-500"},
		{ID: "u6", Username: "coding_wizard", Email: "dev@college.edu", AvatarColor: "bg-violet-600"},
		{ID: "u7", Username: "art_major", Email: "paint@college.edu", AvatarColor: "bg-fuchsia-400"},
		{ID: "u8", Username: "coffee_addict", Email: "java@college.edu", AvatarColor: "bg-stone-600"},
		{ID: "u9", Username: "musician_guy", Email: "music@college.edu", AvatarColor: "bg-cyan-500"},
		{ID: "u10", Username: "future_ceo", Email: "biz@college.edu", AvatarColor: "bg-indigo-800"},
	}
	groups := []domain.Group{
		{ID: "g1", Name: "Dorm 304 Confessions", Description: "What happens in 304 stays in 304.", CreatorID: "u2", JoinCode: "DORM304", MemberCount: 142},
		{ID: "g2", Name: "CS Department Feedback", Description: "Honest feedback for the faculty.", CreatorID: "u1", JoinCode: "CSROCKS", MemberCount: 89},
		{ID: "g3", Name: "Late Night Thoughts", Description: "3AM vibes only.", CreatorID: "u3", JoinCode: "VIBES", MemberCount: 320},
	}
	memberships := []domain.GroupMember{
		{UserID: "u1", GroupID: "g1", Role: domain.RoleMember},
		{UserID: "u1", GroupID: "g2", Role: domain.RoleAdmin},
		{UserID: "u2", GroupID: "g1", Role: domain.RoleAdmin},
		{UserID: "u3", GroupID: "g3", Role: domain.RoleAdmin},
	}
	messages := []domain.Message{
		{ID: "m1", GroupID: "g1", SenderID: "u2", Content: "Someone keeps stealing my oat milk and I know who it is.", Status: domain.StatusApproved, CreatedAt: now.Add(-24 * time.Hour).UTC(), Likes: 12},
		{ID: "m2", GroupID: "g1", SenderID: "u1", Content: "I actually miss the 8am lectures.", Status: domain.StatusPending, CreatedAt: now.UTC()},
		{ID: "m3", GroupID: "g2", SenderID: "u3", Content: "Prof. Smith is amazing but the assignments are too long.", Status: domain.StatusApproved, CreatedAt: now.Add(-100 * time.Second).UTC(), Likes: 45},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Contacts = contacts
	s.state.Groups = groups
	s.state.Memberships = memberships
	s.state.Messages = messages
	s.publishLocked(EventSeeded)
}
