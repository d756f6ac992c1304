package domain

// CountBucket is one group of an aggregation, keyed by the grouped value.
type CountBucket struct {
	Key   string `json:"_id"`
	Count int64  `json:"count"`
}

type TaskTotals struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

// Analytics is the admin dashboard summary.
type Analytics struct {
	TotalLeads    int64         `json:"totalLeads"`
	LeadsByStatus []CountBucket `json:"leadsByStatus"`
	LeadsBySource []CountBucket `json:"leadsBySource"`
	Tasks         TaskTotals    `json:"tasks"`
}
