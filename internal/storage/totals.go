package storage

// DailyTotal: заявленный выпуск завода за день.
type DailyTotal struct {
	Date            Date    `json:"date" validate:"required"`
	TotalProduction float64 `json:"total_production" validate:"gte=0"`
}

type MonthlyTotal struct {
	Year            int     `json:"year" validate:"required,gte=2000,lte=2100"`
	Month           int     `json:"month" validate:"required,gte=1,lte=12"`
	TotalProduction float64 `json:"total_production" validate:"gte=0"`
}
