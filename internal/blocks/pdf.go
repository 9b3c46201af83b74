package blocks

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// CrossCheckPDF compares the block stream's page coverage against the
// source PDF's page count. The layout stage occasionally drops trailing
// pages; a count mismatch is the cheapest way to notice.
func CrossCheckPDF(pdfPath string, bs []Block) error {
	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to count PDF pages: %w", err)
	}
	if max := MaxPage(bs); max >= count {
		return fmt.Errorf("blocks reference page %d but PDF has only %d pages", max, count)
	}
	return nil
}
