// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Common live property names.
const (
	PropContentType   = "getcontenttype"
	PropContentLength = "getcontentlength"
	PropLastModified  = "getlastmodified"
	PropETag          = "getetag"
	PropResourceType  = "resourcetype"
	PropCreationDate  = "creationdate"

	// DirectoryContentType is the getcontenttype value servers report for collections.
	DirectoryContentType = "httpd/unix-directory"
)

// Properties is a flat property-name to text mapping from a multi-status body.
type Properties map[string]string

// Get returns the value of name and whether it was present.
func (p Properties) Get(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// ExtractProperties parses a WebDAV multi-status body and maps the local name
// of every child of a prop element to its trimmed text content. Apache's
// numbered live-property prefixes (lp1:, lp2:, ...) and the plain DAV prefix
// (D:) are both reduced to the local name. When a property appears more than
// once the first value wins.
//
// Malformed input is never an error: extraction stops at the first decode
// failure and whatever was collected so far is returned.
func ExtractProperties(body []byte) Properties {
	props := Properties{}
	if len(body) == 0 {
		return props
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false

	var (
		propDepth    int // depth of the enclosing prop element, 0 when outside
		depth        int
		current      string
		currentDepth int
		text         strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			return props
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			name := localName(t.Name)
			switch {
			case propDepth == 0 && name == "prop":
				propDepth = depth
			case propDepth > 0 && depth == propDepth+1:
				current = name
				currentDepth = depth
				text.Reset()
			}

		case xml.CharData:
			if current != "" {
				text.Write(t)
			}

		case xml.EndElement:
			if current != "" && depth == currentDepth {
				if _, seen := props[current]; !seen {
					props[current] = strings.TrimSpace(text.String())
				}
				current = ""
			}
			if propDepth > 0 && depth == propDepth {
				propDepth = 0
			}
			depth--
		}
	}
}

// localName strips any namespace prefix the decoder left on the element name.
func localName(n xml.Name) string {
	name := n.Local
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
