package domain

import "reflect"

// StatusCancelled is the status attached to results of requests whose context
// was already cancelled when the handler started. 499 follows the nginx
// convention for "client closed request".
const StatusCancelled = 499

// Result is the uniform outcome envelope returned by every operation boundary:
// success with data, or failure with a human-readable error and an optional
// status-code override for the HTTP layer.
type Result[T any] struct {
	Data       T      `json:"data"`
	IsSuccess  bool   `json:"isSuccess"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Success wraps data in a successful result.
func Success[T any](data T) Result[T] {
	return Result[T]{IsSuccess: true, Data: data}
}

// Failure builds a failed result. An optional status code overrides the
// substring-based mapping at the HTTP boundary.
func Failure[T any](err string, statusCode ...int) Result[T] {
	r := Result[T]{IsSuccess: false, Error: err}
	if len(statusCode) > 0 {
		r.StatusCode = statusCode[0]
	}
	return r
}

// Cancelled is the distinct outcome for a request aborted before any side
// effect because its context was already done.
func Cancelled[T any]() Result[T] {
	return Failure[T]("Request cancelled.", StatusCancelled)
}

// Map transforms the data of a successful result. A failure propagates its
// error and status code unchanged. A success whose data is the zero value
// (nil pointer, nil slice, false, …) becomes the distinguished "No data."
// failure: consumers must never observe a success with absent data.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.IsSuccess {
		err := r.Error
		if err == "" {
			err = "Unknown error"
		}
		return Result[U]{IsSuccess: false, Error: err, StatusCode: r.StatusCode}
	}
	if isZero(r.Data) {
		return Result[U]{IsSuccess: false, Error: "No data.", StatusCode: r.StatusCode}
	}
	return Success(fn(r.Data))
}

func isZero[T any](v T) bool {
	return reflect.ValueOf(&v).Elem().IsZero()
}
