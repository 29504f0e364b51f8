package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a YAML configuration document into a Config. The
// document mirrors the Config records directly:
//
//	root:
//	  level: INFO
//	  appenders: [console]
//	appenders:
//	  - name: console
//	    kind: console
//	    options:
//	      target: stderr
//	      pattern: "%d [%p] %c - %m%n"
//	    filters:
//	      - kind: levelRange
//	        options: {levelMin: INFO}
//	loggers:
//	  - name: db
//	    level: WARN
//	    additive: false
func ParseYAML(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml configuration: %w", err)
	}
	return &cfg, nil
}
