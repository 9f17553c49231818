package audit

// LogFilter narrows an audit log listing. Empty fields match everything.
type LogFilter struct {
	Module   string
	RecordID string
	Action   string
	ActorID  string
	Page     int64
	Limit    int64
}

const maxPageSize = 100

func (f *LogFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
}

func (f LogFilter) offset() int64 {
	return (f.Page - 1) * f.Limit
}
