package response

import "fmt"

// AppError 业务错误：携带业务码、对外消息和原始错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

// WrapError 把原始错误包装为业务错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
