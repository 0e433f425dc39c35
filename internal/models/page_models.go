package models

// Page is one zero-based slice of a larger collection plus count metadata.
// JSON keys match the paged listing consumed by the existing front end.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a Page for the given page index and size.
func NewPage[T any](content []T, number, size int, totalElements int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 1
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}
	return &Page[T]{
		Content:          content,
		TotalElements:    totalElements,
		TotalPages:       totalPages,
		Number:           number,
		Size:             size,
		NumberOfElements: len(content),
		First:            number == 0,
		Last:             number+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}
