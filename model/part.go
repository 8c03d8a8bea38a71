package model

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// rootStartTag locates the start tag of the root element: data[start:end]
// spans from '<' to the closing '>' (or "/>") inclusive.
func rootStartTag(data []byte) (start, end int, err error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		offset := d.InputOffset()
		token, err := d.RawToken()
		if err != nil {
			return 0, 0, zerr.With(zerr.Wrap(ErrNoRootElement, "malformed part"), "cause", err.Error())
		}
		if _, ok := token.(xml.StartElement); ok {
			return int(offset), int(d.InputOffset()), nil
		}
	}
}

func attrRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\s` + regexp.QuoteMeta(name) + `\s*=\s*("[^"]*"|'[^']*')`)
}

// setRootAttr sets an unprefixed attribute on the root element of the XML
// document and returns the edited copy. An empty value removes the
// attribute. Everything outside the root start tag is left byte-identical.
func setRootAttr(data []byte, name, value string) ([]byte, error) {
	start, end, err := rootStartTag(data)
	if err != nil {
		return nil, err
	}
	tag := string(data[start:end])

	var attr string
	if value != "" {
		var escaped bytes.Buffer
		if err := xml.EscapeText(&escaped, []byte(value)); err != nil {
			return nil, err
		}
		attr = " " + name + `="` + escaped.String() + `"`
	}

	if loc := attrRe(name).FindStringIndex(tag); loc != nil {
		tag = tag[:loc[0]] + attr + tag[loc[1]:]
	} else if attr != "" {
		closing := len(tag) - 1
		if strings.HasSuffix(tag, "/>") {
			closing = len(tag) - 2
		}
		tag = strings.TrimRight(tag[:closing], " \t\r\n") + attr + tag[closing:]
	} else {
		return data, nil
	}

	edited := make([]byte, 0, len(data)-(end-start)+len(tag))
	edited = append(edited, data[:start]...)
	edited = append(edited, tag...)
	return append(edited, data[end:]...), nil
}
