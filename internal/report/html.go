package report

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

const timeLayout = "2006-01-02 15:04:05 MST"

func RenderHTML(r *Results) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><meta name=\"color-scheme\" content=\"light dark\"><title>cbc-secprobe report</title>")
	b.WriteString(`<style>
body{font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:24px;background:#fff;color:#111}
.h{font-weight:700;margin:0 0 8px 0}
.card{border:1px solid #eee;border-radius:8px;padding:12px;margin:12px 0}
.badge{display:inline-block;padding:2px 8px;border-radius:999px;font-size:12px;margin-left:8px}
.pass{background:#e6ffed;color:#006644}
.fail{background:#ffebe6;color:#bf2600}
.inc{background:#e6f7ff;color:#0747a6}
.sev-low{background:#eef6ff;color:#0747a6}
.sev-med{background:#fff7e6;color:#a36e00}
.sev-high{background:#ffe6e6;color:#bf2600}
.sev-crit{background:#000;color:#fff}
.active{background:#f0f5ff;color:#2f54eb}
pre{white-space:pre-wrap}
@media (prefers-color-scheme: dark){
  body{background:#0b0b0b;color:#e6e6e6}
  .card{border-color:#2a2a2a}
}
@media print{ .card{page-break-inside:avoid} }
</style></head><body>`)
	b.WriteString(fmt.Sprintf("<h1 class=\"h\">cbc-secprobe report<span class=\"badge\">%s</span></h1>", html.EscapeString(r.TargetType)))
	if len(r.Targets) > 0 {
		b.WriteString("<div>Targets: " + html.EscapeString(strings.Join(r.Targets, ", ")) + "</div>")
	}
	b.WriteString(fmt.Sprintf("<div>Generated: %s</div>", r.GeneratedAt.Format(timeLayout)))

	var pass, fail, inc int
	for _, f := range r.Findings {
		switch f.Status {
		case Pass: pass++
		case Fail: fail++
		default: inc++
		}
	}
	b.WriteString(fmt.Sprintf("<div class=h style=\"margin-top:16px\">Overall: <span class=\"badge pass\">PASS %d</span> <span class=\"badge fail\">FAIL %d</span> <span class=\"badge inc\">INC %d</span></div>", pass, fail, inc))

	for _, f := range r.Findings {
		cl := "inc"
		if f.Status == Pass { cl = "pass" } else if f.Status == Fail { cl = "fail" }
		sevCl := "sev-low"
		switch f.Severity {
		case Medium: sevCl = "sev-med"
		case High: sevCl = "sev-high"
		case Critical: sevCl = "sev-crit"
		}
		b.WriteString("<div class=card><div class=h>")
		b.WriteString(html.EscapeString(f.Name))
		b.WriteString(fmt.Sprintf(" <span class=\"badge %s\">%s</span>", cl, f.Status))
		b.WriteString(fmt.Sprintf(" <span class=\"badge %s\">%s</span>", sevCl, f.Severity))
		if f.Active { b.WriteString(" <span class=\"badge active\">ACTIVE</span>") }
		b.WriteString("</div>")
		b.WriteString(fmt.Sprintf("<div>Category: %s</div>", html.EscapeString(f.Category)))
		if f.Evidence != nil {
			b.WriteString("<pre>" + html.EscapeString(asJSON(f.Evidence)) + "</pre>")
		}
		if len(f.Mitigations) > 0 {
			b.WriteString("<ul>")
			for _, m := range f.Mitigations { b.WriteString("<li>" + html.EscapeString(m) + "</li>") }
			b.WriteString("</ul>")
		}
		b.WriteString("</div>")
	}
	if len(r.Notes) > 0 {
		b.WriteString("<h2 class=h>Notes</h2><ul>")
		for _, n := range r.Notes { b.WriteString("<li>" + html.EscapeString(n) + "</li>") }
		b.WriteString("</ul>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func asJSON(v any) string {
	bs, _ := json.MarshalIndent(v, "", "  ")
	return string(bs)
}
