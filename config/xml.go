package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// The XML form follows the classic log4net document shape:
//
//	<treelog>
//	  <appender name="console" type="console">
//	    <layout type="pattern">
//	      <conversionPattern value="%d [%p] %c - %m%n"/>
//	    </layout>
//	    <threshold value="INFO"/>
//	    <param name="target" value="stderr"/>
//	    <filter type="levelRange">
//	      <param name="levelMin" value="INFO"/>
//	      <param name="levelMax" value="ERROR"/>
//	    </filter>
//	  </appender>
//	  <root>
//	    <level value="INFO"/>
//	    <appender-ref ref="console"/>
//	  </root>
//	  <logger name="db" additivity="false">
//	    <level value="WARN"/>
//	  </logger>
//	</treelog>
//
// A <log4net> root element is accepted as an alias so existing
// documents port over unchanged.

type xmlDocument struct {
	XMLName   xml.Name
	Appenders []xmlAppender `xml:"appender"`
	Root      *xmlLogger    `xml:"root"`
	Loggers   []xmlLogger   `xml:"logger"`
}

type xmlAppender struct {
	Name      string       `xml:"name,attr"`
	Type      string       `xml:"type,attr"`
	Layout    *xmlLayout   `xml:"layout"`
	Threshold *xmlValue    `xml:"threshold"`
	Params    []xmlParam   `xml:"param"`
	Filters   []xmlElement `xml:"filter"`
}

type xmlLayout struct {
	Type    string    `xml:"type,attr"`
	Pattern *xmlValue `xml:"conversionPattern"`
}

type xmlElement struct {
	Type   string     `xml:"type,attr"`
	Params []xmlParam `xml:"param"`
}

type xmlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlValue struct {
	Value string `xml:"value,attr"`
}

type xmlLogger struct {
	Name         string    `xml:"name,attr"`
	Additivity   string    `xml:"additivity,attr"`
	Level        *xmlValue `xml:"level"`
	AppenderRefs []xmlRef  `xml:"appender-ref"`
}

type xmlRef struct {
	Ref string `xml:"ref,attr"`
}

// ParseXML reads an XML configuration document into a Config.
func ParseXML(r io.Reader) (*Config, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing xml configuration: %w", err)
	}
	if doc.XMLName.Local != "treelog" && doc.XMLName.Local != "log4net" {
		return nil, fmt.Errorf("unexpected root element <%s>", doc.XMLName.Local)
	}

	cfg := &Config{}
	for _, xa := range doc.Appenders {
		cfg.Appenders = append(cfg.Appenders, xa.toRecord())
	}
	if doc.Root != nil {
		cfg.Root = RootConfig{
			Level:        doc.Root.levelName(),
			AppenderRefs: doc.Root.refs(),
		}
	}
	for _, xl := range doc.Loggers {
		lc := LoggerConfig{
			Name:         xl.Name,
			Level:        xl.levelName(),
			AppenderRefs: xl.refs(),
		}
		switch strings.ToLower(xl.Additivity) {
		case "true":
			t := true
			lc.Additive = &t
		case "false":
			f := false
			lc.Additive = &f
		}
		cfg.Loggers = append(cfg.Loggers, lc)
	}
	return cfg, nil
}

func (xa xmlAppender) toRecord() AppenderConfig {
	opts := paramOptions(xa.Params)
	if xa.Layout != nil && xa.Layout.Pattern != nil {
		opts["pattern"] = xa.Layout.Pattern.Value
	}
	if xa.Threshold != nil {
		opts["threshold"] = xa.Threshold.Value
	}

	ac := AppenderConfig{Name: xa.Name, Kind: xa.Type, Options: opts}
	for _, xf := range xa.Filters {
		ac.Filters = append(ac.Filters, FilterConfig{
			Kind:    xf.Type,
			Options: paramOptions(xf.Params),
		})
	}
	return ac
}

func paramOptions(params []xmlParam) Options {
	opts := make(Options, len(params))
	for _, p := range params {
		opts[p.Name] = p.Value
	}
	return opts
}

func (xl *xmlLogger) levelName() string {
	if xl.Level == nil {
		return ""
	}
	return xl.Level.Value
}

func (xl *xmlLogger) refs() []string {
	refs := make([]string, 0, len(xl.AppenderRefs))
	for _, r := range xl.AppenderRefs {
		refs = append(refs, r.Ref)
	}
	return refs
}

// LoadFile parses a configuration file, selecting the format by
// extension: .xml, or .yaml/.yml.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		return ParseXML(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", ext)
	}
}
