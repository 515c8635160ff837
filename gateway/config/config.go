package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRegion         = "us-east-1"
	DefaultTagKey         = "mcp-multirag-kb"
	DefaultTagValue       = "true"
	DefaultFunctionName   = "BedrockKBMCPProxy"
	DefaultGatewayName    = "bedrock-kb-mcp-gateway"
	DefaultTargetName     = "BedrockKBMCPTarget"
	DefaultMaxDataSources = 10
	DefaultLogLevel       = "info"

	// URLEnv names the variable holding the config location when none is passed.
	URLEnv = "KBGATEWAY_CONFIG"
)

// Config captures settings for every command and the proxy function.
type Config struct {
	AWS           AWS           `yaml:"aws,omitempty" json:"aws,omitempty"`
	KnowledgeBase KnowledgeBase `yaml:"knowledgeBase,omitempty" json:"knowledgeBase,omitempty"`
	Lambda        Lambda        `yaml:"lambda,omitempty" json:"lambda,omitempty"`
	Gateway       Gateway       `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	Target        Target        `yaml:"target,omitempty" json:"target,omitempty"`
	LogLevel      string        `yaml:"logLevel,omitempty" json:"logLevel,omitempty" env:"LOG_LEVEL"`
}

type AWS struct {
	Region string `yaml:"region,omitempty" json:"region,omitempty" env:"AWS_REGION"`
	// BedrockRegion overrides Region for knowledge base calls.
	BedrockRegion string `yaml:"bedrockRegion,omitempty" json:"bedrockRegion,omitempty" env:"BEDROCK_REGION"`
	AccountID     string `yaml:"accountId,omitempty" json:"accountId,omitempty" env:"AWS_ACCOUNT_ID"`
}

type KnowledgeBase struct {
	DefaultID      string `yaml:"defaultId,omitempty" json:"defaultId,omitempty" env:"KNOWLEDGE_BASE_ID"`
	TagKey         string `yaml:"tagKey,omitempty" json:"tagKey,omitempty" env:"KB_INCLUSION_TAG_KEY"`
	TagValue       string `yaml:"tagValue,omitempty" json:"tagValue,omitempty" env:"KB_TAG_VALUE"`
	FilterByTag    bool   `yaml:"filterByTag,omitempty" json:"filterByTag,omitempty" env:"KB_FILTER_BY_TAG"`
	MaxDataSources int32  `yaml:"maxDataSources,omitempty" json:"maxDataSources,omitempty" env:"KB_MAX_DATA_SOURCES"`
}

type Lambda struct {
	FunctionName string `yaml:"functionName,omitempty" json:"functionName,omitempty" env:"LAMBDA_FUNCTION_NAME"`
	ARN          string `yaml:"arn,omitempty" json:"arn,omitempty" env:"LAMBDA_ARN"`
}

type Gateway struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty" env:"GATEWAY_NAME"`
	ID          string `yaml:"id,omitempty" json:"id,omitempty" env:"GATEWAY_ID"`
	RoleName    string `yaml:"roleName,omitempty" json:"roleName,omitempty" env:"GATEWAY_ROLE_NAME"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" env:"GATEWAY_DESCRIPTION"`
	UserPoolID  string `yaml:"userPoolId,omitempty" json:"userPoolId,omitempty" env:"USER_POOL_ID"`
	ClientID    string `yaml:"clientId,omitempty" json:"clientId,omitempty" env:"CLIENT_ID"`
}

type Target struct {
	ID          string `yaml:"id,omitempty" json:"id,omitempty" env:"TARGET_ID"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty" env:"TARGET_NAME"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" env:"TARGET_DESCRIPTION"`
	// ToolName restricts update-target to a single tool when set.
	ToolName string `yaml:"toolName,omitempty" json:"toolName,omitempty" env:"TOOL_NAME"`
}

// Load reads the optional YAML document at URL, applies environment
// overrides and fills defaults.
func Load(ctx context.Context, URL string) (*Config, error) {
	cfg := &Config{}
	if URL = strings.TrimSpace(URL); URL != "" {
		fs := afs.New()
		data, err := fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", URL, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %q: %w", URL, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Init()
	return cfg, nil
}

// Init applies defaults to unset fields.
func (c *Config) Init() {
	setDefault(&c.AWS.Region, DefaultRegion)
	setDefault(&c.KnowledgeBase.TagKey, DefaultTagKey)
	setDefault(&c.KnowledgeBase.TagValue, DefaultTagValue)
	if c.KnowledgeBase.MaxDataSources <= 0 {
		c.KnowledgeBase.MaxDataSources = DefaultMaxDataSources
	}
	setDefault(&c.Lambda.FunctionName, DefaultFunctionName)
	setDefault(&c.Gateway.Name, DefaultGatewayName)
	setDefault(&c.Gateway.RoleName, c.Gateway.Name+"-role")
	setDefault(&c.Gateway.Description, "Bedrock Knowledge Base MCP Server Gateway")
	setDefault(&c.Target.Name, DefaultTargetName)
	setDefault(&c.Target.Description, "Bedrock Knowledge Base MCP Target")
	setDefault(&c.LogLevel, DefaultLogLevel)
}

// RetrievalRegion returns the region used for knowledge base calls.
func (c *Config) RetrievalRegion() string {
	if c.AWS.BedrockRegion != "" {
		return c.AWS.BedrockRegion
	}
	return c.AWS.Region
}

// LambdaARN returns the configured proxy ARN or derives it from the function
// name, region and account.
func (c *Config) LambdaARN(accountID string) string {
	if c.Lambda.ARN != "" {
		return c.Lambda.ARN
	}
	return fmt.Sprintf("arn:aws:lambda:%s:%s:function:%s", c.AWS.Region, accountID, c.Lambda.FunctionName)
}

// DiscoveryURL returns the Cognito OpenID discovery document of the user pool.
func (c *Config) DiscoveryURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/openid-configuration", c.AWS.Region, c.Gateway.UserPoolID)
}

// Validate checks settings every component needs.
func (c *Config) Validate() error {
	if c.AWS.Region == "" {
		return errors.New("AWS_REGION is required")
	}
	return nil
}

// ValidateGateway checks settings needed to create a gateway.
func (c *Config) ValidateGateway() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Gateway.UserPoolID == "" {
		return errors.New("USER_POOL_ID is required")
	}
	if c.Gateway.ClientID == "" {
		return errors.New("CLIENT_ID is required")
	}
	return nil
}

// ValidateTarget checks settings needed to attach a target.
func (c *Config) ValidateTarget() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Gateway.ID == "" {
		return errors.New("GATEWAY_ID is required")
	}
	return nil
}

// ValidateTargetUpdate checks settings needed to update an existing target.
func (c *Config) ValidateTargetUpdate() error {
	if err := c.ValidateTarget(); err != nil {
		return err
	}
	if c.Target.ID == "" {
		return errors.New("TARGET_ID is required")
	}
	return nil
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
