package common

// ListResponse wraps list payloads with a count so clients can page
// without inspecting the array length
type ListResponse struct {
	Data  interface{} `json:"data"`
	Count int         `json:"count"`
}

// NewListResponse builds a ListResponse for a slice payload
func NewListResponse(data interface{}, count int) *ListResponse {
	return &ListResponse{Data: data, Count: count}
}
