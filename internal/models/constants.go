package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Booking list filters. The state parameter is a closed enumeration;
// unknown values are rejected at the service layer.
const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

// ValidState reports whether s names a known booking list filter.
func ValidState(s string) bool {
	switch s {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return true
	}
	return false
}

const (
	// ProjectionCacheTTL время жизни кэшированных проекций в Redis
	ProjectionCacheTTL = 30 * 60 // 30 минут в секундах

	// ReportQueueSize размер очереди воркера отчетов
	ReportQueueSize = 64

	// DefaultReportRangeDaysBefore / After окно отчета по умолчанию
	DefaultReportRangeDaysBefore = 7
	DefaultReportRangeDaysAfter  = 30
)
