package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once        sync.Once
	translator  *gst.ShaderTranslator
	errTransIni error
)

// Get returns the process-wide translator, creating it on first use.
func Get(ctx context.Context) (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, errTransIni = gst.NewShaderTranslator(ctx)
	})
	if errTransIni != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", errTransIni)
	}
	return translator, nil
}

// Stage is the translator's name for a shader stage.
type Stage string

const (
	Vertex   Stage = "vertex"
	Fragment Stage = "fragment"
)

// Translate converts WebGL2 source for stage into desktop GLSL 4.10. The
// returned map is keyed by the original uniform names and carries the names
// the driver will see.
func Translate(ctx context.Context, source string, stage Stage) (string, map[string]gst.ShaderVariable, error) {
	t, err := Get(ctx)
	if err != nil {
		return "", nil, err
	}
	out, err := t.TranslateShader(source, string(stage), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	return out.Code, out.Variables, nil
}
