package storage

type Operator struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,max=255"`
	LineID   *int64 `json:"line_id"`
	IsActive bool   `json:"is_active"`
}
