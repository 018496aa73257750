// Package core provides the template func map shared by all console templates.
package core

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/gymflow/console/internal/http/uiutil"
)

// Deps holds dependencies for constructing the template func map. The
// Template pointer is filled in after parsing so renderSection can
// execute sibling templates.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns the helpers available to every console template.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": friendlyTime,
		"formatDate":   uiutil.FormatISODate,
		"formatMoney":  uiutil.FormatMoney,
		"statusClass":  statusClass,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"truncateText": uiutil.TruncateWithEllipsis,
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own trusted templates; user values
		// were auto-escaped during ExecuteTemplate above.
		return template.HTML(buf.String()), nil
	}

	return funcs
}

func friendlyTime(ts any) string {
	var t0 time.Time
	switch v := ts.(type) {
	case time.Time:
		t0 = v
	case *time.Time:
		if v != nil {
			t0 = *v
		}
	default:
		return ""
	}
	return uiutil.FormatFriendlyDateTime(t0)
}

// statusClass maps member and trainer states to badge styles.
func statusClass(status string) string {
	switch strings.ToUpper(status) {
	case "ACTIVE":
		return "badge-success"
	case "EXPIRED":
		return "badge-danger"
	case "FROZEN":
		return "badge-info"
	default:
		return "badge-light"
	}
}
