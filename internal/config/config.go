package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models dealdesk.yml: the workspace profile, document defaults
// seeded into new snapshots, and per-category scope presets.
type Config struct {
	Profile struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"profile"`
	Defaults struct {
		Currency              string `yaml:"currency"`
		ReviewWindowDays      int    `yaml:"review_window_days"`
		RevisionRounds        int    `yaml:"revision_rounds"`
		TerminationNoticeDays int    `yaml:"termination_notice_days"`
		OwnershipTransferRule string `yaml:"ownership_transfer_rule"`
		DisputePath           string `yaml:"dispute_path"`
	} `yaml:"defaults"`
	Scope struct {
		Version    string                    `yaml:"version"`
		Categories map[string]CategoryPreset `yaml:"categories"`
	} `yaml:"scope"`
	Server struct {
		Addr      string `yaml:"addr"`
		BasePath  string `yaml:"base_path"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`
}

// CategoryPreset holds the seed scope lists for one engagement category.
type CategoryPreset struct {
	Dependencies []string            `yaml:"dependencies"`
	Exclusions   []string            `yaml:"exclusions"`
	Deliverables []DeliverablePreset `yaml:"deliverables"`
}

type DeliverablePreset struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Quantity    int    `yaml:"quantity"`
	Format      string `yaml:"format,omitempty"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; run dd init or import one", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Profile.ID == "" {
		return fmt.Errorf("config.profile.id is required")
	}
	if c.Defaults.Currency == "" {
		return fmt.Errorf("config.defaults.currency is required")
	}
	switch c.Defaults.DisputePath {
	case "", "negotiation", "mediation", "arbitration":
	default:
		return fmt.Errorf("config.defaults.dispute_path must be negotiation, mediation or arbitration")
	}
	for category, preset := range c.Scope.Categories {
		switch category {
		case "design", "development", "consulting", "marketing", "legal", "other":
		default:
			return fmt.Errorf("config.scope.categories has unknown category %s", category)
		}
		for _, d := range preset.Deliverables {
			if d.ID == "" {
				return fmt.Errorf("category %s has deliverable preset without id", category)
			}
			if d.Description == "" {
				return fmt.Errorf("deliverable preset %s has empty description", d.ID)
			}
		}
	}
	return nil
}

// CategoryScope returns the scope preset for a category, empty when the
// category has no presets configured.
func (c *Config) CategoryScope(category string) CategoryPreset {
	if c.Scope.Categories == nil {
		return CategoryPreset{}
	}
	return c.Scope.Categories[category]
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "dealdesk.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault(profileID string) string {
	return fmt.Sprintf(defaultTemplate, profileID)
}

// Default returns the default Config struct for a profile.
func Default(profileID string) *Config {
	var cfg Config
	cfg.Profile.ID = profileID
	_ = yaml.NewDecoder(bytes.NewBufferString(fmt.Sprintf(defaultTemplate, profileID))).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `profile:
  id: %s
  name: ""

defaults:
  currency: USD
  review_window_days: 3
  revision_rounds: 2
  termination_notice_days: 14
  ownership_transfer_rule: upon_full_payment
  dispute_path: negotiation

scope:
  version: "1.0.0"
  categories:
    design:
      dependencies:
        - Brand guidelines
        - Content copy
        - Logo assets (vector format)
        - Access to existing design files
      exclusions:
        - Photography or photo shoots
        - Copywriting or content creation
        - Development or coding
        - Stock images or fonts licensing
      deliverables:
        - id: logo-design
          description: Logo design
          quantity: 1
        - id: brand-guidelines
          description: Brand guidelines document
          quantity: 1
          format: PDF
        - id: website-mockup
          description: Website mockup
          quantity: 1
          format: Figma
    development:
      dependencies:
        - API documentation
        - Server/hosting access
        - Design mockups
        - Functional requirements
      exclusions:
        - UI/UX design
        - Content creation
        - Server hosting fees
        - Ongoing maintenance
      deliverables:
        - id: website
          description: Responsive website
          quantity: 1
        - id: api
          description: API development
          quantity: 1
        - id: testing
          description: Testing & QA
          quantity: 1
    consulting:
      dependencies:
        - Access to key stakeholders
        - Relevant internal documents
        - Current process documentation
      exclusions:
        - Implementation of recommendations
        - Ongoing operational support
        - Staff training
      deliverables:
        - id: assessment-report
          description: Assessment report
          quantity: 1
          format: PDF
        - id: strategy-roadmap
          description: Strategy roadmap
          quantity: 1
    marketing:
      dependencies:
        - Brand guidelines
        - Target audience profiles
        - Access to analytics
      exclusions:
        - Ad spend budget
        - Video production
        - Influencer fees
      deliverables:
        - id: campaign-plan
          description: Campaign plan
          quantity: 1
        - id: content-calendar
          description: Monthly content calendar
          quantity: 1
    legal:
      dependencies:
        - Relevant contracts and agreements
        - Business registration documents
      exclusions:
        - Court representation
        - Government filing fees
        - Notarization costs
      deliverables:
        - id: contract-draft
          description: Contract draft
          quantity: 1
          format: DOCX
    other:
      dependencies:
        - Project requirements document
        - Access to relevant stakeholders
      exclusions:
        - Ongoing support after delivery
        - Third-party costs
      deliverables:
        - id: project-delivery
          description: Project delivery
          quantity: 1

server:
  addr: 127.0.0.1:8787
  base_path: /v0
  jwt_secret: ""
`
