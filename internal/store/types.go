package store

import "time"

// unixTime converts a stored unix-seconds column back to UTC time.
func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// TaskQuery defines optional filters for ListTasks. Zero values mean "no
// filter" (Priority uses 0 to mean "any"). Results are ordered by ID, with
// Limit/Offset applied after filters.
type TaskQuery struct {
	ProjectID string
	Status    string
	Assignee  string
	Priority  int
	Limit     int
	Offset    int
}

// TicketQuery defines optional filters for ListTickets, mirroring TaskQuery.
type TicketQuery struct {
	ProjectID string
	Status    string
	Priority  int
	Limit     int
	Offset    int
}
