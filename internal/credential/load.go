package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/jellydator/validation"
	toml "github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrConfig is matched by every error returned from Load.
var ErrConfig = errors.New("config error")

// ConfigError reports why a configuration source could not be turned into
// Credentials. It is fatal at startup.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfig, e.Err}
}

type fileConfig struct {
	BaseURL      string `json:"base_url" toml:"base_url" yaml:"base_url"`
	ClientID     string `json:"client_id" toml:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" toml:"client_secret" yaml:"client_secret"`
	Type         string `json:"type" toml:"type" yaml:"type"`
	Username     string `json:"username" toml:"username" yaml:"username"`
	Password     string `json:"password" toml:"password" yaml:"password"`
	EmployeeID   string `json:"employee_id" toml:"employee_id" yaml:"employee_id"`
}

func (f *fileConfig) Validate() error {
	password := f.Type == string(GrantPassword)
	return validation.ValidateStruct(f,
		validation.Field(&f.BaseURL, validation.Required),
		validation.Field(&f.ClientID, validation.Required),
		validation.Field(&f.ClientSecret, validation.Required),
		validation.Field(&f.Type, validation.Required),
		validation.Field(&f.Username, validation.When(password, validation.Required)),
		validation.Field(&f.Password, validation.When(password, validation.Required)),
	)
}

// Load reads the configuration file at path. The format follows the file
// extension: .toml, .yaml/.yml, anything else is JSON (comments allowed).
// No partial Credentials is returned on failure.
func Load(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, &ConfigError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes data as if it had been read from path.
func Parse(path string, data []byte) (Credentials, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Credentials{}, &ConfigError{Path: path, Err: errors.New("config file is empty")}
	}

	var raw fileConfig
	if err := decode(path, data, &raw); err != nil {
		return Credentials{}, &ConfigError{Path: path, Err: fmt.Errorf("parse config: %w", err)}
	}

	if err := raw.Validate(); err != nil {
		return Credentials{}, &ConfigError{Path: path, Err: err}
	}

	grant := GrantType(raw.Type)
	if !grant.Known() {
		log.WithField("type", raw.Type).Warn("unknown grant type in config, token requests will fail")
	}

	employeeID := strings.TrimSpace(raw.EmployeeID)
	if employeeID == "" {
		employeeID = defaultEmployeeID
	}

	return Credentials{
		BaseURL:      strings.TrimRight(strings.TrimSpace(raw.BaseURL), "/"),
		GrantType:    grant,
		ClientID:     raw.ClientID,
		ClientSecret: raw.ClientSecret,
		Username:     raw.Username,
		Password:     raw.Password,
		EmployeeID:   employeeID,
	}, nil
}

func decode(path string, data []byte, out *fileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, out)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	default:
		return json.Unmarshal(jsonc.ToJSON(data), out)
	}
}
