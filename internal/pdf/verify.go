package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	model.ConfigPath = "disable"
}

// verify checks the structure and page count of a written document.
func verify(path string, expectedPages int) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("generated PDF failed validation: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("failed to count pages: %w", err)
	}
	if pages != expectedPages {
		return fmt.Errorf("generated PDF has %d pages, expected %d", pages, expectedPages)
	}
	return nil
}
