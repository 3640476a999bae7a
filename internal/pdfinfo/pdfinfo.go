// Package pdfinfo probes PDF files for the metadata the annotator needs:
// page count and, when present, the document title used as the unit tag
// suggestion.
package pdfinfo

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info describes an opened PDF document.
type Info struct {
	Path      string
	PageCount int
	Title     string
}

// Read probes the file with pdfcpu, falling back to ledongthuc/pdf for
// documents pdfcpu refuses. The title is best effort and may be empty.
func Read(path string) (*Info, error) {
	info := &Info{Path: path}

	count, err := readPageCountPDFCPU(path)
	if err != nil {
		count, err = readPageCountFallback(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
		}
	}
	info.PageCount = count
	info.Title = readTitle(path)
	return info, nil
}

func readPageCountPDFCPU(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx.PageCount, nil
}

func readPageCountFallback(path string) (int, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer file.Close()
	return reader.NumPage(), nil
}

// readTitle pulls /Info /Title from the trailer. Malformed documents just
// yield an empty title.
func readTitle(path string) (title string) {
	defer func() {
		// The trailer walk panics on some malformed documents.
		if r := recover(); r != nil {
			title = ""
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	v := reader.Trailer().Key("Info").Key("Title")
	if v.Kind() == pdf.String {
		return v.RawString()
	}
	return ""
}
