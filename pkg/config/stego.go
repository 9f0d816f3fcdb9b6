package config

import "fmt"

const (
	DefaultSignature          = "#*"
	DefaultMaxSignatureLength = 9
	DefaultMaxExtensionLength = 9
	DefaultLogLevel           = "info"
	DefaultPort               = "8080"
)

// StegoConfig is shared by the encoder and the decoder of a carrier, both sides must agree on every value.
type StegoConfig struct {
	Signature          string `yaml:"signature"`
	MaxSignatureLength int    `yaml:"max_signature_length"`
	MaxExtensionLength int    `yaml:"max_extension_length"`
}

func (c *StegoConfig) PopulateUnsetConfigVars() {
	if c.Signature == "" {
		c.Signature = DefaultSignature
	}
	if c.MaxSignatureLength < 1 {
		c.MaxSignatureLength = DefaultMaxSignatureLength
	}
	if c.MaxExtensionLength < 1 {
		c.MaxExtensionLength = DefaultMaxExtensionLength
	}
}

// WithSignature returns a copy of the config using signature, if it is not empty
func (c StegoConfig) WithSignature(signature string) StegoConfig {
	if signature != "" {
		c.Signature = signature
	}
	return c
}

func (c StegoConfig) String() string {
	return fmt.Sprintf("signature=%q max_signature_length=%d max_extension_length=%d",
		c.Signature, c.MaxSignatureLength, c.MaxExtensionLength)
}

type ServerConfig struct {
	Port string `yaml:"port"`

	// AllowedOrigins enables CORS for the listed origins, e.g. http://localhost:3000. Empty disables CORS.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

func (c *ServerConfig) PopulateUnsetConfigVars() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
}
