package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	TaskID       *int64
	ActivityType *ActivityType
	Limit        int
}
