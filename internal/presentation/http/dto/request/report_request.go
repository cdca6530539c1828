package request

// ReportFilterRequest limits a report to a date range
type ReportFilterRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Top  int    `form:"top" binding:"omitempty,min=1,max=50"`
}
