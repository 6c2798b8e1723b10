// Package config loads sanitizer policies from YAML, JSON or TOML files
// and reads the command's environment settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/njchilds90/htmlclean"
	"github.com/spf13/viper"
)

// ErrInvalid is returned when a policy file is well-formed but
// describes an unusable policy.
var ErrInvalid = errors.New("invalid policy")

// URLRule is the file form of htmlclean.URLRule.
type URLRule struct {
	Schemes      []string `mapstructure:"schemes" yaml:"schemes"`
	DenyRelative bool     `mapstructure:"deny_relative" yaml:"deny_relative,omitempty"`
}

// File is a policy as written in a configuration file. Fields that are
// absent leave the corresponding setting of the base policy named by
// Extends untouched.
type File struct {
	// Extends names the base policy: "default" (or empty), "strict" or
	// "none".
	Extends string `mapstructure:"extends" yaml:"extends,omitempty"`

	Tags       []string `mapstructure:"tags" yaml:"tags,omitempty"`
	AddTags    []string `mapstructure:"add_tags" yaml:"add_tags,omitempty"`
	RemoveTags []string `mapstructure:"remove_tags" yaml:"remove_tags,omitempty"`

	// Attributes replaces the base allowlist tag by tag. The "*" key
	// applies to every tag.
	Attributes        map[string][]string            `mapstructure:"attributes" yaml:"attributes,omitempty"`
	AttributePrefixes []string                       `mapstructure:"attribute_prefixes" yaml:"attribute_prefixes,omitempty"`
	AttributeValues   map[string]map[string][]string `mapstructure:"attribute_values" yaml:"attribute_values,omitempty"`
	SetAttributes     map[string]map[string]string   `mapstructure:"set_attributes" yaml:"set_attributes,omitempty"`
	Classes           map[string][]string            `mapstructure:"classes" yaml:"classes,omitempty"`
	StyleProperties   []string                       `mapstructure:"style_properties" yaml:"style_properties,omitempty"`

	// URLSchemes replaces the base rules attribute by attribute.
	URLSchemes map[string]URLRule `mapstructure:"url_schemes" yaml:"url_schemes,omitempty"`
	BaseURL    string             `mapstructure:"base_url" yaml:"base_url,omitempty"`

	CleanContentTags []string `mapstructure:"clean_content_tags" yaml:"clean_content_tags,omitempty"`
	KeepComments     *bool    `mapstructure:"keep_comments" yaml:"keep_comments,omitempty"`
	LinkRel          *string  `mapstructure:"link_rel" yaml:"link_rel,omitempty"`
}

// Load reads the policy file at path. The format follows the file
// extension.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	f, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	log.Debug("Loaded policy file", "path", path, "extends", f.Extends)
	return f, nil
}

// Parse reads a policy file of the given format ("yaml", "json",
// "toml") from r.
func Parse(r io.Reader, format string) (*File, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	f, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return f, nil
}

func decode(v *viper.Viper) (*File, error) {
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &f, nil
}

// Base returns the built-in policy called name.
func Base(name string) (*htmlclean.Policy, error) {
	switch name {
	case "", "default":
		return htmlclean.DefaultPolicy(), nil
	case "strict":
		return htmlclean.StrictPolicy(), nil
	case "none":
		return &htmlclean.Policy{}, nil
	}
	return nil, fmt.Errorf("%w: unknown base policy %q", ErrInvalid, name)
}

// Policy builds the htmlclean.Policy the file describes.
func (f *File) Policy() (*htmlclean.Policy, error) {
	p, err := Base(f.Extends)
	if err != nil {
		return nil, err
	}

	if f.Tags != nil {
		p.AllowedTags = slices.Clone(f.Tags)
	}
	p.AllowedTags = append(p.AllowedTags, f.AddTags...)
	if len(f.RemoveTags) > 0 {
		p = p.WithoutTags(f.RemoveTags...)
	}

	if f.Attributes != nil {
		if p.AllowedAttributes == nil {
			p.AllowedAttributes = make(map[string][]string, len(f.Attributes))
		}
		for tag, attrs := range f.Attributes {
			p.AllowedAttributes[tag] = slices.Clone(attrs)
		}
	}
	p.AllowedAttributePrefixes = append(p.AllowedAttributePrefixes, f.AttributePrefixes...)
	if f.AttributeValues != nil {
		p.AllowedAttributeValues = f.AttributeValues
	}
	if f.SetAttributes != nil {
		p.SetAttributes = f.SetAttributes
	}
	if f.Classes != nil {
		p.AllowedClasses = f.Classes
	}
	if f.StyleProperties != nil {
		p.AllowedStyleProperties = slices.Clone(f.StyleProperties)
	}

	if f.URLSchemes != nil {
		if p.URLSchemes == nil {
			p.URLSchemes = make(map[string]htmlclean.URLRule, len(f.URLSchemes))
		}
		for attr, r := range f.URLSchemes {
			p.URLSchemes[attr] = htmlclean.URLRule{Schemes: slices.Clone(r.Schemes), DenyRelative: r.DenyRelative}
		}
	}
	if f.BaseURL != "" {
		u, err := url.Parse(f.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: base_url: %w", ErrInvalid, err)
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("%w: base_url %q is not absolute", ErrInvalid, f.BaseURL)
		}
		p.BaseURL = u
	}

	if f.CleanContentTags != nil {
		p.CleanContentTags = slices.Clone(f.CleanContentTags)
	}
	if f.KeepComments != nil {
		p.KeepComments = *f.KeepComments
	}
	if f.LinkRel != nil {
		p.LinkRel = *f.LinkRel
	}
	return p, nil
}

// FromPolicy describes p as a self-contained File extending "none".
// The AttributeFilter cannot be represented and is omitted.
func FromPolicy(p *htmlclean.Policy) File {
	p = p.Clone()
	urls := p.URLSchemes
	if urls == nil {
		urls = htmlclean.DefaultURLSchemes()
	}

	f := File{
		Extends:           "none",
		Tags:              p.AllowedTags,
		Attributes:        p.AllowedAttributes,
		AttributePrefixes: p.AllowedAttributePrefixes,
		AttributeValues:   p.AllowedAttributeValues,
		SetAttributes:     p.SetAttributes,
		Classes:           p.AllowedClasses,
		StyleProperties:   p.AllowedStyleProperties,
		URLSchemes:        make(map[string]URLRule, len(urls)),
		CleanContentTags:  p.CleanContentTags,
		KeepComments:      &p.KeepComments,
		LinkRel:           &p.LinkRel,
	}
	for attr, r := range urls {
		f.URLSchemes[attr] = URLRule{Schemes: r.Schemes, DenyRelative: r.DenyRelative}
	}
	if p.BaseURL != nil {
		f.BaseURL = p.BaseURL.String()
	}
	return f
}

func scope() *gap.Scope {
	return gap.NewScope(gap.User, "htmlclean")
}

// DefaultPath is where the command looks for a policy file when none
// is given.
func DefaultPath() string {
	path, _ := scope().ConfigPath("htmlclean.yml")
	return path
}

// Find returns the first existing htmlclean.yml in the user's
// configuration directories.
func Find() (string, bool) {
	dirs, err := scope().ConfigDirs()
	if err != nil {
		return "", false
	}
	if c := os.Getenv("HTMLCLEAN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, "htmlclean.yml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
