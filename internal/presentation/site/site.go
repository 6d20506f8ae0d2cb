// Package site holds the static site copy. It is embedded at build time
// and parsed once at startup.
package site

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Block struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type Contact struct {
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

type Hero struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	CTA      string `yaml:"cta"`
}

type About struct {
	Values []Block  `yaml:"values"`
	Story  []string `yaml:"story"`
}

type Children struct {
	Title      string  `yaml:"title"`
	Intro      string  `yaml:"intro"`
	Activities []Block `yaml:"activities"`
	Closing    Block   `yaml:"closing"`
}

type Donate struct {
	Title    string `yaml:"title"`
	Intro    string `yaml:"intro"`
	Currency string `yaml:"currency"`
	Presets  []int  `yaml:"presets"`
}

// Site is the whole copy document
type Site struct {
	Name     string   `yaml:"name"`
	Tagline  string   `yaml:"tagline"`
	Nav      []Link   `yaml:"nav"`
	Contact  Contact  `yaml:"contact"`
	Hero     Hero     `yaml:"hero"`
	About    About    `yaml:"about"`
	Children Children `yaml:"children"`
	Donate   Donate   `yaml:"donate"`
}

// Load parses the embedded copy
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// Parse reads a copy document, rejecting one without a name or navigation
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site copy: %w", err)
	}
	if site.Name == "" || len(site.Nav) == 0 {
		return nil, fmt.Errorf("site copy is missing its name or navigation")
	}
	return &site, nil
}
