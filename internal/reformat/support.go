package reformat

import (
	"path/filepath"
	"strings"
)

const jupyterLanguageID = "Jupyter"

// Supported reports whether a file is eligible for reformatting. Python
// sources and stubs always are; notebooks only when jupyter is enabled.
func Supported(name, languageID string, jupyter bool) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".py", ".pyi":
		return true
	case ".ipynb":
		return jupyter
	}
	return jupyter && languageID == jupyterLanguageID
}

func isStubFile(name string) bool {
	return strings.HasSuffix(name, ".pyi")
}
