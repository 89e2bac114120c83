package xge

import (
	"fmt"
	"io"

	ppbio "github.com/octobuild/octobuild/internal/io"
)

// WriteReport emits a structured XML build report for every task in g --
// the writer-side counterpart to Parse/ParseFile -- grounded on the
// internal/io XmlFile wrapper used elsewhere for structured file output.
func WriteReport(w io.Writer, g *Graph) error {
	xml := ppbio.NewXmlFile(w, false)

	xml.Tag("BuildReport", func() {
		for _, t := range g.Tasks {
			attrs := []ppbio.XmlAttr{
				{Name: "Name", Value: t.ID},
				{Name: "Result", Value: t.State().String()},
				{Name: "ExitCode", Value: fmt.Sprintf("%d", t.ExitCode)},
			}
			xml.Tag("Task", func() {
				xml.InnerString("Caption", t.Caption)
				xml.InnerString("Output", string(t.Output))
			}, attrs...)
		}
	})

	return nil
}
