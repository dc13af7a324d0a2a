package roles

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/nick0a/founderbleed/internal/domain/model"
)

// maxJDTasks bounds how many tasks the JD lists; the full list stays on
// the role record.
const maxJDTasks = 5

var jdTemplate = template.Must(template.New("jd").Parse(`{{.Title}} — {{.Hours}} hrs/week

Take over recurring work currently handled by the founder.

Responsibilities:
{{- range .Tasks}}
- {{.Label}} ({{.Hours}} hrs/week)
{{- end}}

Time commitment: {{.Hours}} hours per week (~{{.FTE}} FTE).
{{- if .Cost}}
Estimated cost: {{.Cost}}/month.
{{- end}}`))

type jdView struct {
	Title string
	Hours string
	FTE   string
	Cost  string
	Tasks []jdTaskView
}

type jdTaskView struct {
	Label string
	Hours string
}

// buildJD renders the templated job description for a role. A zero-cost
// role (no configured rate) omits the cost line instead of showing $0.
func buildJD(role *model.RoleRecommendation) string {
	view := jdView{
		Title: role.RoleTitle,
		Hours: trimFloat(role.HoursPerWeek),
		FTE:   trimFloat(role.HoursPerWeek / fullTimeWeekHours),
	}
	if role.CostMonthly > 0 {
		view.Cost = "$" + trimFloat(role.CostMonthly)
	}
	for i, task := range role.Tasks {
		if i == maxJDTasks {
			break
		}
		view.Tasks = append(view.Tasks, jdTaskView{Label: task.Label, Hours: trimFloat(task.HoursPerWeek)})
	}

	var b strings.Builder
	if err := jdTemplate.Execute(&b, view); err != nil {
		// The template is static and the view is plain values; execution
		// cannot fail at runtime, but a JD is cosmetic either way.
		return role.RoleTitle
	}
	return b.String()
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
