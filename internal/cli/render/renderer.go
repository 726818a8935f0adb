package render

import (
	"encoding/json"
	"fmt"
	"io"
)

type Renderer[T any] interface {
	Render(result T) error
}

// RenderJSON writes v as indented JSON
func RenderJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
