package frontend

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Template renders named templates for echo
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>Photo Gallery</title>
	<link rel="icon" type="image/svg+xml" href="/icon.svg">
	<link rel="apple-touch-icon" href="/icon.png">
	<style>
		body { font-family: sans-serif; margin: 0 auto; max-width: 60rem; padding: 1rem; }
		.grid { display: grid; gap: 1rem; grid-template-columns: repeat(auto-fill, minmax(10rem, 1fr)); }
		.grid img { width: 100%; height: auto; border-radius: 0.25rem; }
		small { color: #666; word-break: break-all; }
	</style>
</head>
<body>
	<h1>Photo Gallery</h1>
	<form method="post" action="/capture" enctype="multipart/form-data">
		{{if .AcceptsUploads}}<input type="file" name="image" accept="image/*" capture="environment" required>{{end}}
		<button type="submit">Take photo</button>
	</form>
	{{with .Message}}<p id="capture-result">{{.}}</p>{{end}}
	{{if .Photos}}
	<div class="grid">
		{{range .Photos}}
		<article>
			<a href="{{.URL}}"><img src="{{.ThumbnailURL}}" alt="{{.StoragePath}}" loading="lazy"></a>
			<small>{{.StoragePath}}</small>
		</article>
		{{end}}
	</div>
	{{else}}
	<p>No photos taken yet.</p>
	{{end}}
</body>
</html>`
