package response

// 业务状态码，沿用 HTTP 语义便于前端直接判断
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
