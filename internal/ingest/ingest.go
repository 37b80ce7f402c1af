// Package ingest loads raw job text from operator-supplied sources: pasted
// text, plain-text files, PDFs, and Word documents.
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadFile extracts the text content of a job document, dispatching on the
// file extension. Supported: .txt, .md, .pdf, .docx.
func ReadFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("could not read text file: %w", err)
		}
		return string(data), nil
	case ".pdf":
		return readPDF(path)
	case ".docx":
		return readDocx(path)
	default:
		return "", fmt.Errorf("unsupported document type %q (want .txt, .md, .pdf, or .docx)", filepath.Ext(path))
	}
}

// Combine merges pasted text with an optional document extraction into the
// single blob handed to the extractor.
func Combine(pasted, document string) string {
	pasted = strings.TrimSpace(pasted)
	document = strings.TrimSpace(document)
	switch {
	case pasted == "":
		return document
	case document == "":
		return pasted
	default:
		return pasted + "\n\n" + document
	}
}

func readPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open PDF: %w", err)
	}
	defer f.Close()

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("could not extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, textReader); err != nil {
		return "", fmt.Errorf("could not read PDF text: %w", err)
	}
	return buf.String(), nil
}

// docx is a zip archive; the body lives in word/document.xml. Paragraphs
// become lines, runs within a paragraph concatenate.
func readDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("could not open docx archive: %w", err)
	}
	defer archive.Close()

	var docFile *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("could not open docx body: %w", err)
	}
	defer rc.Close()

	return extractDocxText(rc)
}

func extractDocxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var out strings.Builder
	var inText bool

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed docx body: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				out.Write(el)
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}
