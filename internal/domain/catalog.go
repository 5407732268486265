package domain

type JobTitle struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Experience struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type Skill struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Offer es una oferta de empleo con sus dimensiones ya resueltas.
type Offer struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	SalaryAvg   *float64 `json:"salary_avg"`
	JobTitle    *string  `json:"job_title"`
	Experience  *string  `json:"experience"`
	Department  *string  `json:"department"`
	Region      *string  `json:"region"`
}

// OfferFilter agrupa los filtros opcionales de busqueda de ofertas.
type OfferFilter struct {
	JobTitle   string
	Region     string
	Experience string
	SalaryMin  *float64
	SalaryMax  *float64
	Keyword    string
	Page       int
	Limit      int
}

type OfferPage struct {
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Offers []Offer `json:"offers"`
}
