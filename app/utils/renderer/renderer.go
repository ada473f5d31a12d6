package renderer

import "github.com/unrolled/render"

// New builds the JSON renderer shared by all handlers.
func New() *render.Render {
	return render.New(render.Options{
		IndentJSON: false,
	})
}
