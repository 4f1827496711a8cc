package domain

import (
	"encoding/json"
	"fmt"
)

type RequestStatus string

const (
	StatusIdle    RequestStatus = "idle"
	StatusLoading RequestStatus = "loading"
	StatusSuccess RequestStatus = "success"
	StatusFailure RequestStatus = "failure"
)

// RequestState is one of Idle, Loading, Success(result) or Failure(message).
// Values are only built through the constructors below, so a state can never
// carry a result and a failure message at the same time.
type RequestState struct {
	status  RequestStatus
	result  PredictionResult
	message string
}

func IdleState() RequestState {
	return RequestState{status: StatusIdle}
}

func LoadingState() RequestState {
	return RequestState{status: StatusLoading}
}

func SuccessState(result PredictionResult) RequestState {
	return RequestState{status: StatusSuccess, result: result}
}

func FailureState(message string) RequestState {
	return RequestState{status: StatusFailure, message: message}
}

// Status reports the variant. The zero value is Idle.
func (s RequestState) Status() RequestStatus {
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

func (s RequestState) IsIdle() bool    { return s.Status() == StatusIdle }
func (s RequestState) IsLoading() bool { return s.Status() == StatusLoading }
func (s RequestState) IsSuccess() bool { return s.Status() == StatusSuccess }
func (s RequestState) IsFailure() bool { return s.Status() == StatusFailure }

// Result returns the prediction of a Success state.
func (s RequestState) Result() (PredictionResult, bool) {
	if s.status != StatusSuccess {
		return PredictionResult{}, false
	}
	return s.result, true
}

// FailureMessage returns the message of a Failure state.
func (s RequestState) FailureMessage() (string, bool) {
	if s.status != StatusFailure {
		return "", false
	}
	return s.message, true
}

type requestStateJSON struct {
	Status  RequestStatus     `json:"status"`
	Result  *PredictionResult `json:"result,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (s RequestState) MarshalJSON() ([]byte, error) {
	out := requestStateJSON{Status: s.Status()}
	if r, ok := s.Result(); ok {
		out.Result = &r
	}
	if m, ok := s.FailureMessage(); ok {
		out.Message = m
	}
	return json.Marshal(out)
}

func (s *RequestState) UnmarshalJSON(data []byte) error {
	var in requestStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Status {
	case StatusIdle, "":
		*s = IdleState()
	case StatusLoading:
		*s = LoadingState()
	case StatusSuccess:
		if in.Result == nil {
			return fmt.Errorf("success state without result")
		}
		*s = SuccessState(*in.Result)
	case StatusFailure:
		*s = FailureState(in.Message)
	default:
		return fmt.Errorf("unknown request status %q", in.Status)
	}
	return nil
}
