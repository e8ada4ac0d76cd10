package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// DocumentToPlainText extracts plain text from a Google Doc.
// Supports both legacy documents (with doc.Body) and tabbed documents
// (with doc.Tabs). Text-run content is concatenated unchanged, so line
// separators arrive exactly as the API delivers them (including the
// vertical-tab line breaks the schedule parser normalizes).
func DocumentToPlainText(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var text strings.Builder

	if len(doc.Tabs) > 0 {
		for _, tab := range doc.Tabs {
			writeTabText(&text, tab)
		}
	} else if doc.Body != nil {
		for _, element := range doc.Body.Content {
			extractPlainText(&text, element)
		}
	}

	return text.String(), nil
}

// writeTabText extracts text from one tab and, recursively, its children.
func writeTabText(text *strings.Builder, tab *docs.Tab) {
	if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
		for _, element := range tab.DocumentTab.Body.Content {
			extractPlainText(text, element)
		}
	}
	for _, child := range tab.ChildTabs {
		writeTabText(text, child)
	}
}

// extractPlainText extracts plain text from a structural element
func extractPlainText(text *strings.Builder, element *docs.StructuralElement) {
	if element.Paragraph != nil {
		extractParagraphText(text, element.Paragraph)
	} else if element.Table != nil {
		extractTableText(text, element.Table)
	}
}

// extractParagraphText extracts plain text from a paragraph
func extractParagraphText(text *strings.Builder, para *docs.Paragraph) {
	if para == nil || para.Elements == nil {
		return
	}

	for _, elem := range para.Elements {
		if elem.TextRun != nil && elem.TextRun.Content != "" {
			text.WriteString(elem.TextRun.Content)
		}
	}
}

// extractTableText extracts plain text from a table
func extractTableText(text *strings.Builder, table *docs.Table) {
	if table == nil || table.TableRows == nil {
		return
	}

	for _, row := range table.TableRows {
		if row.TableCells == nil {
			continue
		}

		for _, cell := range row.TableCells {
			for _, element := range cell.Content {
				if element.Paragraph != nil {
					extractParagraphText(text, element.Paragraph)
				}
			}
			text.WriteString("\t")
		}
		text.WriteString("\n")
	}
}
