package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/bcampbell/digestomat/digest"
	"github.com/bcampbell/digestomat/trends"
)

var tmplFuncs = template.FuncMap{
	"title":     titleCase,
	"sparkline": sparkline,
}

func titleCase(s interface{}) string {
	str := fmt.Sprintf("%v", s)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

var digestTmpl = template.Must(template.New("digest").Funcs(tmplFuncs).Parse(`<html>
<body style="font-family: sans-serif; max-width: 640px;">
<h1>Research Digest &mdash; {{.Date}}</h1>
{{if eq .Total 0}}
<p>No new items today.</p>
{{end}}
{{range .Sections}}{{if .NewItems}}
<h2>{{.Section | title}}</h2>
<ul>
{{range .NewItems}}
<li>
<a href="{{.URL}}">{{.Title}}</a>
{{if .Publisher}} &mdash; {{.Publisher}}{{end}}
{{if .Summary}}<br><small>{{.Summary}}</small>{{end}}
</li>
{{end}}
</ul>
{{end}}{{end}}
<hr>
<p><small>{{.Total}} new item(s).
{{range .Sections}}{{.Section}}: {{len .NewItems}} new, {{.Rejected}} rejected, {{.AlreadySeen}} seen before. {{end}}</small></p>
</body>
</html>`))

type digestView struct {
	Date     string
	Total    int
	Sections []*digest.SectionResult
}

// RenderDigest builds the daily digest email from a pipeline run.
func RenderDigest(res *digest.RunResult) (*Msg, error) {
	date := res.Started.Format("2006-01-02")

	var b strings.Builder
	err := digestTmpl.Execute(&b, &digestView{
		Date:     date,
		Total:    res.TotalNew(),
		Sections: res.Sections,
	})
	if err != nil {
		return nil, err
	}

	return &Msg{
		Subject: fmt.Sprintf("Research Digest — %s", date),
		HTML:    b.String(),
	}, nil
}

var trendsTmpl = template.Must(template.New("trends").Funcs(tmplFuncs).Parse(`<html>
<body style="font-family: sans-serif; max-width: 640px;">
<h1>Trends Report &mdash; {{.Date}}</h1>
{{if not .Series}}
<p>No topic activity in this range.</p>
{{else}}
<table cellpadding="4" style="border-collapse: collapse;">
<tr><th align="left">Topic</th><th align="right">Total</th><th align="left">Per {{.Period}}</th></tr>
{{range .Series}}
<tr>
<td>{{.Topic}}</td>
<td align="right">{{.Total}}</td>
<td><tt>{{sparkline .Buckets}}</tt></td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>`))

type trendsView struct {
	Date   string
	Period trends.Granularity
	Series []trends.TopicSeries
}

// RenderTrends builds the trends report email.
func RenderTrends(series []trends.TopicSeries, g trends.Granularity, asOf time.Time) (*Msg, error) {
	date := asOf.Format("2006-01-02")
	var b strings.Builder
	err := trendsTmpl.Execute(&b, &trendsView{Date: date, Period: g, Series: series})
	if err != nil {
		return nil, err
	}
	return &Msg{
		Subject: fmt.Sprintf("Trends Report — %s", date),
		HTML:    b.String(),
	}, nil
}

var sparkRunes = []rune(" ▁▂▃▄▅▆▇█")

// sparkline renders bucket counts as a row of block characters.
func sparkline(buckets []trends.Bucket) string {
	max := 0
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	if max == 0 {
		return ""
	}
	out := make([]rune, len(buckets))
	for i, b := range buckets {
		out[i] = sparkRunes[(b.Count*(len(sparkRunes)-1))/max]
	}
	return string(out)
}
