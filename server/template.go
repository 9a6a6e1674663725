package server

import (
	_ "embed"
	"html/template"

	"github.com/opendata-univ/barometre/logger"
	"github.com/opendata-univ/barometre/render"
	"github.com/opendata-univ/barometre/views"
)

//go:embed templates/page.html
var pageHTML string

type pageData struct {
	Nav    []views.PageInfo
	Page   *views.Page
	Assets string
}

var renderChart = render.Chart

// chartUnavailable replaces a chart whose rendering failed.
const chartUnavailable = template.HTML(`<p class="error">⚠️ Chart unavailable</p>`)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"chart": chartHTML,
}).Parse(pageHTML))

// chartHTML renders one panel's chart. A failure stays inside the panel.
func chartHTML(p *views.Panel) (out template.HTML) {
	if !p.HasChart() {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("❌ Chart %s: %v", p.ID, r)
			out = chartUnavailable
		}
	}()
	return renderChart(p.ID, p.Result.ChartConfig)
}
