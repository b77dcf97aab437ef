package domain

// 声望计算规则
const (
	BaseReputation  = 100
	ApprovedBonus   = 10
	LikeBonus       = 2
	RejectedPenalty = 5
)

// Reputation 根据 userID 自己发的消息计算声望，不做存储。
// 100 + Σ(已通过: 10 + 2×点赞) − Σ(被拒绝: 5)
func Reputation(userID string, messages []Message) int {
	score := BaseReputation
	for _, m := range messages {
		if m.SenderID != userID {
			continue
		}
		switch m.Status {
		case StatusApproved:
			score += ApprovedBonus + LikeBonus*m.Likes
		case StatusRejected:
			score -= RejectedPenalty
		}
	}
	return score
}
