package forward

const (
	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
	CodeInvalidJSONBody    = "INVALID_JSON_BODY"
	CodeInvalidQueryParams = "INVALID_QUERY_PARAMS"
	CodeInvalidPathParams  = "INVALID_PATH_PARAMS"
)
