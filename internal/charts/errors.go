package charts

import "fmt"

// Stage is the step of a chart fetch that failed.
type Stage string

const (
	StageRequest Stage = "request"
	StageStatus  Stage = "status"
	StageDecode  Stage = "decode"
)

// FetchError reports a failed chart-data fetch.
type FetchError struct {
	Stage      Stage
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage == StageStatus {
		if e.Err != nil {
			return fmt.Sprintf("chart data request returned %d: %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("chart data request returned %d", e.StatusCode)
	}
	return fmt.Sprintf("chart data %s failed: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
