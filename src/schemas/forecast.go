package schemas

type ForecastResponse struct {
	Dates       []string  `json:"dates"`
	Prices      []float64 `json:"prices"`
	Explanation string    `json:"explanation"`
}
