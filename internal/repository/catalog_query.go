package repository

import (
	"fmt"
	"strings"

	"salary-api/internal/domain"
)

const offerJoins = `
	FROM offers o
	LEFT JOIN job_titles m ON o.job_title_id = m.id
	LEFT JOIN experiences e ON o.experience_id = e.id
	LEFT JOIN departments d ON o.department_id = d.id
	LEFT JOIN regions r ON d.region_id = r.id
	LEFT JOIN salaries s ON o.salary_id = s.id
`

const offerColumns = `
	SELECT o.id, o.title, o.description,
	       s.salary_min, s.salary_max, s.salary_avg,
	       m.label, e.label, d.name, r.name
`

// offerWhere arma la clausula WHERE y sus argumentos posicionales.
// Todos los filtros son opcionales y se combinan con AND.
func offerWhere(f domain.OfferFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if v := strings.TrimSpace(f.JobTitle); v != "" {
		conds = append(conds, "m.label ILIKE "+next(likePattern(v)))
	}
	if v := strings.TrimSpace(f.Region); v != "" {
		conds = append(conds, "r.name ILIKE "+next(likePattern(v)))
	}
	if v := strings.TrimSpace(f.Experience); v != "" {
		conds = append(conds, "e.label ILIKE "+next(likePattern(v)))
	}
	if f.SalaryMin != nil {
		conds = append(conds, "s.salary_avg >= "+next(*f.SalaryMin))
	}
	if f.SalaryMax != nil {
		conds = append(conds, "s.salary_avg <= "+next(*f.SalaryMax))
	}
	if v := strings.TrimSpace(f.Keyword); v != "" {
		p := next(likePattern(v))
		conds = append(conds, "(o.title ILIKE "+p+" OR o.description ILIKE "+p+")")
	}

	if len(conds) == 0 {
		return "WHERE 1=1", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func searchOffersQuery(f domain.OfferFilter) (countSQL, pageSQL string, countArgs, pageArgs []any) {
	where, args := offerWhere(f)
	countSQL = "SELECT COUNT(*)" + offerJoins + where

	offset := (f.Page - 1) * f.Limit
	n := len(args)
	pageSQL = offerColumns + offerJoins + where +
		fmt.Sprintf("\n\tORDER BY s.salary_avg DESC NULLS LAST, o.id ASC\n\tLIMIT $%d OFFSET $%d", n+1, n+2)

	pageArgs = append(append([]any{}, args...), f.Limit, offset)
	return countSQL, pageSQL, args, pageArgs
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}
