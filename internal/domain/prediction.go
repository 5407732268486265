package domain

import "time"

// SalaryEstimate es el resultado de una estimacion de salario.
type SalaryEstimate struct {
	PredictedSalary float64 `json:"predicted_salary"`
	SalaryMin       float64 `json:"salary_min"`
	SalaryMax       float64 `json:"salary_max"`
	MonthlySalary   float64 `json:"monthly_salary"`
	ErrorMargin     float64 `json:"error_margin"`
	ModelUsed       bool    `json:"model_used"`
}

// PredictionRecord guarda una prediccion junto con los datos de entrada.
type PredictionRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	JobTitle        string    `json:"job_title"`
	Region          string    `json:"region"`
	ExperienceLevel string    `json:"experience_level"`
	Skills          []string  `json:"skills"`
	PredictedSalary float64   `json:"predicted_salary"`
	SalaryMin       float64   `json:"salary_min"`
	SalaryMax       float64   `json:"salary_max"`
	MonthlySalary   float64   `json:"monthly_salary"`
	ModelUsed       bool      `json:"model_used"`
	CreatedAt       time.Time `json:"created_at"`
}
