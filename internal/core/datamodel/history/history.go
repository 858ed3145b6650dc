package history

import "time"

type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "requested"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusRequested, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status ends a request's lifecycle. A
// request in a terminal status can never be resolved again.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// PhotoHistory is one row per capture event, append-only.
type PhotoHistory struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	NPK       string    `gorm:"column:npk;not null;index"`
	PhotoTime time.Time `gorm:"column:photo_time;not null;index"`
}

func (PhotoHistory) TableName() string {
	return "photo_histories"
}

// RequestHistory tracks card/photo change requests. Rows are created in
// requested status and resolved at most once; ResponsTime and ResponsName
// stay nil until resolution.
type RequestHistory struct {
	ID          int64         `gorm:"column:id;primaryKey;autoIncrement"`
	NPK         string        `gorm:"column:npk;not null;index"`
	RequestTime time.Time     `gorm:"column:request_time;not null;index"`
	RequestDesc string        `gorm:"column:request_desc"`
	Status      RequestStatus `gorm:"column:status"`
	Remark      string        `gorm:"column:remark"`
	ResponsTime *time.Time    `gorm:"column:respons_time"`
	ResponsName string        `gorm:"column:respons_name"`
}

func (RequestHistory) TableName() string {
	return "request_histories"
}
