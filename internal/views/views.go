package views

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"campusresponse/internal/models"
	"campusresponse/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// pages maps the handler-facing template name to its file under views/.
var pages = []string{
	"auth/login.html",
	"auth/register.html",
	"dashboard/student.html",
	"dashboard/department.html",
	"dashboard/admin.html",
	"incident/detail.html",
	"error.html",
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": TimeAgo,
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"markdown": utils.RenderDescription,
		"statusClass": func(s models.Status) string {
			switch s {
			case models.StatusReported:
				return "status-reported"
			case models.StatusInProgress:
				return "status-progress"
			case models.StatusResolved:
				return "status-resolved"
			}
			return ""
		},
		"categoryCount": func(byCategory map[models.Category]int64, c models.Category) int64 {
			return byCategory[c]
		},
	}
}

// TimeAgo renders a coarse relative time for listings.
func TimeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	}
	return t.Format("2006-01-02")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Load builds the renderer: every page is parsed together with the layouts
// and includes so they can share the "base" skeleton.
func Load(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		panic(err)
	}
	includes, err := filepath.Glob(filepath.Join(templatesDir, "includes", "*.html"))
	if err != nil {
		panic(err)
	}

	funcMap := FuncMap()
	for _, page := range pages {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, filepath.Join(templatesDir, "views", page))
		r.AddFromFilesFuncs(page, funcMap, files...)
	}
	return r
}
