// Package config resolves the organizer configuration for the host
// layer: it locates a settings file by walking parent directories,
// decodes whichever format it finds, and falls back to the built-in
// defaults. The core only ever consumes the resolved api.Config value.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/tsorg/api"
)

// Candidate file names checked per directory, in precedence order.
var fileNames = []string{"tsorg.json", ".tsorg.json", "tsorg.yaml", "tsorg.hcl"}

// Discover walks from dir toward the filesystem root and loads the first
// configuration file found. Returns the defaults and an empty path when
// no file exists anywhere on the way up.
func Discover(dir string) (*api.Config, string, error) {
	d, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		for _, name := range fileNames {
			p := filepath.Join(d, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				cfg, err := Load(p)
				if err != nil {
					return nil, "", err
				}
				return cfg, p, nil
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return api.DefaultConfig(), "", nil
}

// Load reads and validates one configuration file. The format follows
// the extension: JSON, YAML, or HCL.
func Load(path string) (*api.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &api.Config{}
	switch filepath.Ext(path) {
	case ".json":
		if err := oj.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".hcl":
		if err := decodeHCL(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyFilterDefaults(cfg)
	return cfg, nil
}

// applyFilterDefaults fills in the file-set globs when a config file
// omits them entirely; an explicit empty list is respected.
func applyFilterDefaults(cfg *api.Config) {
	def := api.DefaultConfig()
	if cfg.Include == nil {
		cfg.Include = def.Include
	}
	if cfg.Exclude == nil {
		cfg.Exclude = def.Exclude
	}
}

// Hash fingerprints a resolved configuration. Batch runs key their
// result cache on it so a config change invalidates every cached entry.
func Hash(cfg *api.Config) string {
	sum := sha256.Sum256([]byte(oj.JSON(cfg)))
	return hex.EncodeToString(sum[:])
}

type hclSection struct {
	Label        string   `hcl:"label,label"`
	Kinds        []string `hcl:"kinds"`
	Access       []string `hcl:"access,optional"`
	Static       *bool    `hcl:"static,optional"`
	Alphabetical bool     `hcl:"alphabetical,optional"`
}

type hclConfig struct {
	Sections       []hclSection `hcl:"section,block"`
	MemberSections []hclSection `hcl:"member_section,block"`
	Include        []string     `hcl:"include,optional"`
	Exclude        []string     `hcl:"exclude,optional"`
}

func decodeHCL(path string, data []byte, cfg *api.Config) error {
	var hc hclConfig
	if err := hclsimple.Decode(path, data, nil, &hc); err != nil {
		return err
	}
	cfg.Sections = hclDefs(hc.Sections)
	cfg.MemberSections = hclDefs(hc.MemberSections)
	cfg.Include = hc.Include
	cfg.Exclude = hc.Exclude
	return nil
}

func hclDefs(secs []hclSection) []api.SectionDef {
	if secs == nil {
		return nil
	}
	defs := make([]api.SectionDef, 0, len(secs))
	for _, s := range secs {
		defs = append(defs, api.SectionDef{
			Label:        s.Label,
			Kinds:        s.Kinds,
			Access:       s.Access,
			Static:       s.Static,
			Alphabetical: s.Alphabetical,
		})
	}
	return defs
}
