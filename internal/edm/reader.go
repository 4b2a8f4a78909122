package edm

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
)

// ErrNoRecord is returned when the input holds no RDF document
var ErrNoRecord = errors.New("no rdf:RDF element found")

// Element names as reported by the tokenizer, which lowercases them
const (
	rdfRoot          = "rdf:rdf"
	proxyElement     = "ore:proxy"
	choElement       = "edm:providedcho"
	europeanaProxy   = "edm:europeanaproxy"
	aboutAttr        = "rdf:about"
	resourceAttr     = "rdf:resource"
	langAttr         = "xml:lang"
	europeanaProxyOn = "true"
)

// Field is one literal property of a provider proxy
type Field struct {
	Property string
	Value    string
	Lang     string
}

// Record is the date-relevant content of one EDM record
type Record struct {
	About  string // rdf:about of the edm:ProvidedCHO
	Fields []Field
}

// Reader extracts literal proxy fields from EDM RDF/XML
type Reader struct{}

// NewReader creates a new reader
func NewReader() *Reader {
	return &Reader{}
}

// fieldState tracks the property element currently open inside a proxy
type fieldState struct {
	name     string
	lang     string
	text     strings.Builder
	resource bool // has rdf:resource or element children; not a literal
}

// proxyState tracks an open ore:Proxy
type proxyState struct {
	depth     int
	europeana bool
	fields    []Field
	field     *fieldState
}

// Read tokenizes r. Fields of proxies marked edm:europeanaProxy "true" are left out,
// as are fields that reference a resource instead of holding a literal.
func (rd *Reader) Read(r io.Reader) (*Record, error) {
	z := html.NewTokenizer(r)
	z.AllowCDATA(true)

	rec := &Record{}
	sawRoot := false
	depth := 0
	var proxy *proxyState

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, errors.Wrap(err, "tokenize record")
			}
			if !sawRoot {
				return nil, ErrNoRecord
			}
			return rec, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := readTag(z)
			selfClosing := tt == html.SelfClosingTagToken

			switch {
			case name == rdfRoot:
				sawRoot = true
			case name == choElement && rec.About == "":
				rec.About = attrs[aboutAttr]
			case name == proxyElement && proxy == nil && !selfClosing:
				proxy = &proxyState{depth: depth}
			case proxy != nil && proxy.field == nil && depth == proxy.depth+1:
				if !selfClosing {
					proxy.field = &fieldState{name: name, lang: attrs[langAttr], resource: attrs[resourceAttr] != ""}
				}
			case proxy != nil && proxy.field != nil:
				proxy.field.resource = true
			}

			if !selfClosing {
				depth++
			}

		case html.EndTagToken:
			depth--
			if proxy == nil {
				continue
			}
			name, _ := z.TagName()
			switch {
			case depth == proxy.depth && string(name) == proxyElement:
				if !proxy.europeana {
					rec.Fields = append(rec.Fields, proxy.fields...)
				}
				proxy = nil
			case proxy.field != nil && depth == proxy.depth+1:
				proxy.closeField()
			}

		case html.TextToken:
			if proxy != nil && proxy.field != nil {
				proxy.field.text.Write(z.Text())
			}
		}
	}
}

func (p *proxyState) closeField() {
	f := p.field
	p.field = nil

	value := strings.TrimSpace(f.text.String())
	if f.name == europeanaProxy {
		p.europeana = strings.EqualFold(value, europeanaProxyOn)
		return
	}
	if f.resource || value == "" {
		return
	}
	p.fields = append(p.fields, Field{Property: f.name, Value: value, Lang: f.lang})
}

func readTag(z *html.Tokenizer) (string, map[string]string) {
	name, hasAttr := z.TagName()
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return string(name), attrs
}
