package filtering

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
)

const xmlDoctype = `<!DOCTYPE seqfilters SYSTEM "seqfilters.dtd">`

type seqFiltersXML struct {
	XMLName  xml.Name     `xml:"seqfilters"`
	Sections []sectionXML `xml:"section"`
}

type sectionXML struct {
	Name    string         `xml:"name,attr"`
	Filters []oldFilterXML `xml:"oldfilter"`
}

type oldFilterXML struct {
	Regex string    `xml:"regex"`
	Level *levelXML `xml:"level,omitempty"`
}

type levelXML struct {
	Min string `xml:"min,attr,omitempty"`
	Max string `xml:"max,attr,omitempty"`
}

func expressionToXML(e *Expression) oldFilterXML {
	f := oldFilterXML{Regex: e.Orig()}
	if lr := e.Levels(); lr.IsSet() {
		f.Level = &levelXML{}
		if lr.Min != 0 {
			f.Level.Min = strconv.Itoa(int(lr.Min))
		}
		if lr.Max != 0 {
			f.Level.Max = strconv.Itoa(int(lr.Max))
		}
	}
	return f
}

// MarshalXML renders the expression as an <oldfilter> element.
func (e *Expression) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "oldfilter"}
	return enc.EncodeElement(expressionToXML(e), start)
}

func (f oldFilterXML) levels(s *FilterSet) LevelRange {
	var lr LevelRange
	if f.Level == nil {
		return lr
	}
	if f.Level.Min != "" {
		v, err := parseLevel(f.Level.Min)
		if err != nil {
			s.opts.log.Warn("invalid minimum level in filter file",
				"pattern", f.Regex,
				"min", f.Level.Min,
				"error", err)
		} else {
			lr.Min = v
		}
	}
	if f.Level.Max != "" {
		v, err := parseLevel(f.Level.Max)
		if err != nil {
			s.opts.log.Warn("invalid maximum level in filter file",
				"pattern", f.Regex,
				"max", f.Level.Max,
				"error", err)
		} else {
			lr.Max = v
		}
	}
	return lr
}

// Load replaces the set's contents with the <seqfilters> document at path.
// A missing file leaves the set empty. Sections naming unregistered types
// are skipped. A malformed document leaves the set empty and returns an
// error: the document is decoded completely before any section is applied.
func (s *FilterSet) Load(path string) error {
	s.Clear()
	if path != "" {
		s.path = path
	}

	// #nosec G304 -- Path is from configuration, not user input
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.opts.log.Info("filter file not found, starting empty", "path", s.path)
		return nil
	}
	if err != nil {
		s.opts.log.Warn("failed to read filter file", "path", s.path, "error", err)
		return fmt.Errorf("failed to read filter file: %w", err)
	}

	var doc seqFiltersXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		s.opts.log.Warn("malformed filter file", "path", s.path, "error", err)
		return fmt.Errorf("failed to parse filter XML: %w", err)
	}

	for _, section := range doc.Sections {
		t := s.registry.Type(section.Name)
		if t == UnknownType {
			s.opts.log.Warn("skipping filters for unknown type",
				"path", s.path,
				"section", section.Name,
				"filters", len(section.Filters))
			continue
		}
		for _, f := range section.Filters {
			lr := f.levels(s)
			s.AddRangeFilter(t, f.Regex, lr.Min, lr.Max)
		}
	}

	s.opts.log.Debug("loaded filters", "path", s.path, "filters", s.Len())
	return nil
}

// MarshalSeqFilters renders the set as a complete <seqfilters> document,
// sections in ascending mask order.
func (s *FilterSet) MarshalSeqFilters() ([]byte, error) {
	var doc seqFiltersXML
	for t, c := range s.categories {
		if c == nil || c.Len() == 0 {
			continue
		}
		if !s.registry.IsRegistered(uint8(t)) {
			s.opts.log.Warn("not saving filters for unregistered type",
				"type", t,
				"filters", c.Len())
			continue
		}
		section := sectionXML{Name: s.registry.Name(uint8(t))}
		for _, e := range c.exprs {
			section.Filters = append(section.Filters, expressionToXML(e))
		}
		doc.Sections = append(doc.Sections, section)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filters to XML: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(xmlDoctype)+len(body)+2)
	out = append(out, xml.Header...)
	out = append(out, xmlDoctype...)
	out = append(out, '\n')
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// Save writes the set to path, or to the associated path when path is "".
func (s *FilterSet) Save(path string) error {
	if path == "" {
		path = s.path
	}
	if path == "" {
		return &ValidationError{Field: "path", Message: "no filter file associated with set"}
	}

	data, err := s.MarshalSeqFilters()
	if err != nil {
		return err
	}
	if err := writeFile(path, data); err != nil {
		s.opts.log.Warn("failed to save filter file", "path", path, "error", err)
		return err
	}
	s.opts.log.Debug("saved filters", "path", path, "filters", s.Len())
	return nil
}
