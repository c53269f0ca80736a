package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Format selects the serialization of an exported report.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

const DefaultBaseName = "English_Report_Comments"

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatDOCX:
		return FormatDOCX, nil
	case FormatText, "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatText {
		return "text/plain; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (f Format) FileName(base string) string {
	if base == "" {
		base = DefaultBaseName
	}
	return base + "." + string(f)
}

// Document is an exported report ready to be written or served.
type Document struct {
	Format     Format
	FileName   string
	Data       []byte
	Paragraphs int
}

// Build serializes paragraphs, one paragraph each, in order.
func Build(f Format, title string, paragraphs []string) (Document, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatDOCX:
		data, err = DOCX(title, paragraphs)
	case FormatText:
		data = Text(paragraphs)
	default:
		err = fmt.Errorf("unsupported export format %q", f)
	}
	if err != nil {
		return Document{}, err
	}
	return Document{Format: f, FileName: f.FileName(""), Data: data, Paragraphs: len(paragraphs)}, nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Text writes one paragraph per line. Line breaks inside a paragraph become
// spaces.
func Text(paragraphs []string) []byte {
	var b bytes.Buffer
	for _, p := range paragraphs {
		b.WriteString(lineBreaks.Replace(p))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// DOCX writes a minimal WordprocessingML package holding one <w:p> per
// paragraph. The title only goes into the document properties.
func DOCX(title string, paragraphs []string) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct {
		name string
		body any
		raw  string
	}{
		{name: "[Content_Types].xml", raw: contentTypesXML},
		{name: "_rels/.rels", raw: packageRelsXML},
		{name: "docProps/core.xml", body: newCoreProps(title, time.Now().UTC())},
		{name: "word/document.xml", body: newDocument(paragraphs)},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if err := writePart(w, p.body, p.raw); err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(w io.Writer, body any, raw string) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if body == nil {
		_, err := io.WriteString(w, raw)
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(body); err != nil {
		return err
	}
	return enc.Close()
}

const contentTypesXML = `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

// --- mini WordprocessingML model (export only) ---

const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
}

type wParagraph struct {
	Run wRun `xml:"w:r"`
}

type wRun struct {
	Text wText `xml:"w:t"`
}

type wText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

func newDocument(paragraphs []string) wDocument {
	d := wDocument{XmlnsW: nsW}
	d.Body.Paragraphs = make([]wParagraph, len(paragraphs))
	for i, p := range paragraphs {
		t := wText{Value: p}
		if strings.TrimSpace(p) != p {
			t.Space = "preserve"
		}
		d.Body.Paragraphs[i] = wParagraph{Run: wRun{Text: t}}
	}
	return d
}

type coreProps struct {
	XMLName  xml.Name `xml:"cp:coreProperties"`
	XmlnsCP  string   `xml:"xmlns:cp,attr"`
	XmlnsDC  string   `xml:"xmlns:dc,attr"`
	XmlnsDCT string   `xml:"xmlns:dcterms,attr"`
	XmlnsXSI string   `xml:"xmlns:xsi,attr"`
	Title    string   `xml:"dc:title,omitempty"`
	Created  w3cDate  `xml:"dcterms:created"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func newCoreProps(title string, now time.Time) coreProps {
	return coreProps{
		XmlnsCP:  "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		XmlnsDC:  "http://purl.org/dc/elements/1.1/",
		XmlnsDCT: "http://purl.org/dc/terms/",
		XmlnsXSI: "http://www.w3.org/2001/XMLSchema-instance",
		Title:    title,
		Created:  w3cDate{Type: "dcterms:W3CDTF", Value: now.Format(time.RFC3339)},
	}
}
