package xml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/satr/internal/model"
)

// Element local names looked up with etree
const (
	comprobanteElement = "Comprobante"
	stampElement       = "TimbreFiscalDigital"
)

// Summary describes a document without fully parsing it
type Summary struct {
	Root      string `json:"root" yaml:"root"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	UUID      string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	IsCFDI    bool   `json:"is_cfdi" yaml:"is_cfdi"`
}

// Inspect reads the document tree and reports its root element, version
// and fiscal stamp UUID. It does not validate invoice fields.
func Inspect(content []byte) (*Summary, error) {
	root, err := readRoot(content)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Root:      root.Tag,
		Namespace: root.NamespaceURI(),
		Version:   root.SelectAttrValue("Version", ""),
		IsCFDI:    root.Tag == comprobanteElement,
	}
	if tfd := findElementRecursive(root, stampElement); tfd != nil {
		summary.UUID = tfd.SelectAttrValue("UUID", "")
	}

	return summary, nil
}

// ExtractStamp finds the TimbreFiscalDigital complement anywhere in the
// document and converts it into a Stamp
func ExtractStamp(content []byte) (*model.Stamp, error) {
	root, err := readRoot(content)
	if err != nil {
		return nil, err
	}

	tfd := findElementRecursive(root, stampElement)
	if tfd == nil {
		return nil, model.NewParseError(model.ErrMissingField, stampElement, "no fiscal stamp in document", nil)
	}

	stamp := &model.Stamp{
		UUID:           strings.ToUpper(tfd.SelectAttrValue("UUID", "")),
		SATCertificate: tfd.SelectAttrValue("NoCertificadoSAT", ""),
		ProviderRFC:    tfd.SelectAttrValue("RfcProvCertif", ""),
	}
	if stamp.UUID == "" {
		return nil, model.NewParseError(model.ErrMissingField, stampElement+".UUID", "required attribute is missing", nil)
	}

	if raw := tfd.SelectAttrValue("FechaTimbrado", ""); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return nil, model.NewParseError(model.ErrInvalidValue, stampElement+".FechaTimbrado", fmt.Sprintf("invalid date %q", raw), err)
		}
		stamp.StampedAt = t
	}

	return stamp, nil
}

func readRoot(content []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, model.NewParseError(model.ErrSchemaMismatch, "xml", "failed to parse XML", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError(model.ErrSchemaMismatch, "xml", "empty XML document", nil)
	}
	return root, nil
}

// findElementRecursive searches depth-first for an element by local name.
// etree keeps the prefix in Space, so Tag is already the local name.
func findElementRecursive(elem *etree.Element, localName string) *etree.Element {
	if elem.Tag == localName {
		return elem
	}
	for _, child := range elem.ChildElements() {
		if found := findElementRecursive(child, localName); found != nil {
			return found
		}
	}
	return nil
}
