// Package wordpickerv1 defines the wire messages of the wordpicker.v1 API.
//
// Messages are plain structs encoded as JSON; field names follow the
// snake_case convention of the protobuf JSON mapping.
package wordpickerv1

// Word is one collected phrase. Timestamp is ISO-8601 in UTC.
type Word struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type CollectWordRequest struct {
	Text string `json:"text"`
}

type CollectWordResponse struct {
	// Result is one of saved, duplicate, empty or not_english.
	Result string `json:"result"`
	Text   string `json:"text,omitempty"`
}

type ListWordsRequest struct {
	PageNo   int32  `json:"page_no,omitempty"`
	PageSize int32  `json:"page_size,omitempty"`
	Filter   string `json:"filter,omitempty"`
}

func (x *ListWordsRequest) GetFilter() string {
	if x == nil {
		return ""
	}
	return x.Filter
}

type ListWordsResponse struct {
	Words     []*Word `json:"words"`
	Total     int64   `json:"total"`
	PageNo    int32   `json:"page_no"`
	PageCount int32   `json:"page_count"`
}

type CountWordsRequest struct{}

type CountWordsResponse struct {
	Total int64 `json:"total"`
}

type GetConfigRequest struct{}

type GetConfigResponse struct {
	CompletionBaseURL string `json:"completion_base_url"`
	HasAPIKey         bool   `json:"has_api_key"`
}
