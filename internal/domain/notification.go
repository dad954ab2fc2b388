package domain

// NotificationResult is the outcome of a welcome notification attempt.
// It is never persisted; a failed attempt is recorded with Sent=false and
// the collaborator's error text in Error.
type NotificationResult struct {
	Sent      bool
	MessageID string
	Error     string
}

// DashboardStats are the aggregate numbers shown on the dashboard.
type DashboardStats struct {
	Users      int64
	Posts      int64
	TotalLikes int64
}
