package models

// 图表数据项
type ChartDataItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// 跟进统计
type FollowUpAnalytics struct {
	Total          int     `json:"total"`          // 跟进总数
	CompletedCount int     `json:"completedCount"` // 已完成数量
	OverdueCount   int     `json:"overdueCount"`   // 逾期数量
	TodayCount     int     `json:"todayCount"`     // 今日到期数量
	UpcomingCount  int     `json:"upcomingCount"`  // 未来到期数量
	CompletionRate float64 `json:"completionRate"` // 完成率，分母为0时取0
	AvgDaysOverdue float64 `json:"avgDaysOverdue"` // 平均逾期天数

	StatusDistribution   []ChartDataItem `json:"statusDistribution"`   // 状态分布
	PriorityDistribution []ChartDataItem `json:"priorityDistribution"` // 优先级分布
	TypeDistribution     []ChartDataItem `json:"typeDistribution"`     // 跟进方式分布
}

// 跟进提示信息
type FollowUpInsights struct {
	Messages []string `json:"messages"`
}

// 成员工作量
type MemberWorkload struct {
	UserId           string  `json:"userId"`
	UserName         string  `json:"userName"`
	OpenCount        int     `json:"openCount"`        // 未完结跟进数
	OverdueCount     int     `json:"overdueCount"`     // 其中逾期数
	UtilizationShare float64 `json:"utilizationShare"` // 占团队未完结总量的比例
}

// 考勤汇总
type AttendanceSummary struct {
	Days           int     `json:"days"`           // 统计窗口天数
	MemberCount    int     `json:"memberCount"`    // 成员总数
	PresentCount   int     `json:"presentCount"`   // 出勤人次
	AttendanceRate float64 `json:"attendanceRate"` // 出勤率，分母为0时取0
}

// 运营看板响应结构
type DashboardDataResponse struct {
	LeadCount        int `json:"leadCount"`        // 线索总数
	OpportunityCount int `json:"opportunityCount"` // 商机总数
	MemberCount      int `json:"memberCount"`      // 成员总数

	FollowUps        FollowUpAnalytics `json:"followUps"`        // 跟进统计
	ConversionFunnel []ChartDataItem   `json:"conversionFunnel"` // 线索转化漏斗
	Attendance       AttendanceSummary `json:"attendance"`       // 近7天考勤
	Workloads        []MemberWorkload  `json:"workloads"`        // 成员工作量
}

// 活动流条目
type ActivityItem struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	OperatorName string `json:"operatorName"`
	Success      bool   `json:"success"`
	Time         string `json:"time"`
}
