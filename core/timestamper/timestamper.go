package timestamper

import "time"

// ITimeStamper - injectable time source so anything stamping rows or records
// can be driven deterministically in tests
type ITimeStamper interface {
	GetTimeNowSec() int64
}

type UnixTimeNowStamper struct {
}

func (ts *UnixTimeNowStamper) GetTimeNowSec() int64 {
	return time.Now().Unix()
}

// MockTimeNowStamper - returns queued timestamps, one per call
type MockTimeNowStamper struct {
	QueuedTimeStamps []int64
}

func (ts *MockTimeNowStamper) GetTimeNowSec() int64 {
	val := ts.QueuedTimeStamps[0]
	ts.QueuedTimeStamps = ts.QueuedTimeStamps[1:]
	return val
}
