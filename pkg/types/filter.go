package types

// Filter represents query parameters for filtering and pagination.
type Filter struct {
	Search string                 `json:"search,omitempty"`
	Filter map[string]interface{} `json:"filter,omitempty"`
	Limit  uint64                 `json:"limit"`
	Offset uint64                 `json:"offset"`
}
