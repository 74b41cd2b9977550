package dto

type MemoryRecordResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ListMemoriesResponse struct {
	Backend string                 `json:"backend"`
	Total   int                    `json:"total"`
	Records []MemoryRecordResponse `json:"records"`
}
