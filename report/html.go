// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"
	"strconv"

	"github.com/google/safehtml/template"
)

const htmlSource = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.report { border-collapse: collapse; }
.report th { border-bottom: 1px solid #666; padding: 0em 1em; }
.report td { text-align: right; padding: 0em 1em; }
</style>
</head>
<body>
<table class="report">
<tr>{{range .Header}}<th>{{.}}{{end}}
{{range .Rows}}<tr>{{range .}}<td>{{.}}{{end}}
{{end -}}
</table>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Parse(htmlSource))

type htmlData struct {
	Title  string
	Header []string
	Rows   [][]string
}

func writeHTML(w io.Writer, title string, entries []Entry) error {
	if title == "" {
		title = "Aggregate report"
	}
	data := htmlData{Title: title, Header: header}
	for _, e := range entries {
		row := []string{strconv.FormatInt(e.Key, 10), e.Median.String(), e.Min.String(), e.Max.String()}
		data.Rows = append(data.Rows, append(row, e.extras()...))
	}
	return htmlTemplate.Execute(w, data)
}
