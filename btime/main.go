package btime

import (
	"time"
)

var (
	UTCLocale, _ = time.LoadLocation("UTC")
)

/*
UTCStamp
13-digit millisecond timestamp of the wall clock
*/
func UTCStamp() int64 {
	return time.Now().UnixMilli()
}

/*
ToDateStr
formats a 13-digit ms or 10-digit second timestamp in UTC
*/
func ToDateStr(timestamp int64, format string) string {
	var t time.Time
	if timestamp > 1000000000000 {
		seconds := timestamp / 1000
		nanoseconds := (timestamp % 1000) * 1e6
		t = time.Unix(seconds, nanoseconds)
	} else {
		t = time.Unix(timestamp, 0)
	}

	if format == "" {
		format = "2006-01-02 15:04:05"
	}
	return t.In(UTCLocale).Format(format)
}
