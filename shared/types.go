package shared

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/spf13/viper"
)

const DEFAULT_MAX_UPLOAD_SIZE_MB = 5

type ServerConfig struct {
	Sqlite  SqliteConfig  `mapstructure:"sqlite" validate:"required"`
	Rolodex RolodexConfig `mapstructure:"rolodex" validate:"required"`
	Google  GoogleConfig  `mapstructure:"google"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase" validate:"required"`
}

type RolodexConfig struct {
	// DataDir holds the sqlite db & locally stored avatars. Defaults to
	// '$HOME/rolodex', or './dev' in dev mode.
	DataDir  string         `mapstructure:"dataDir"`
	Listener ListenerConfig `mapstructure:"listener" validate:"required"`
	Avatars  AvatarsConfig  `mapstructure:"avatars"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type AvatarsConfig struct {
	MaxUploadSizeMB int64 `mapstructure:"maxUploadSizeMB" validate:"omitempty,min=1"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Bucket              string `mapstructure:"bucket" validate:"required_with=EnableAvatarStorage"`
	Prefix              string `mapstructure:"prefix"`
	EnableAvatarStorage bool   `mapstructure:"enableAvatarStorage"`
}

// LoadServerConfig unmarshals & validates the server config held by v.
func LoadServerConfig(v *viper.Viper) (*ServerConfig, error) {
	config := ServerConfig{}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode server config: %v", err)
	}

	if config.Rolodex.Avatars.MaxUploadSizeMB == 0 {
		config.Rolodex.Avatars.MaxUploadSizeMB = DEFAULT_MAX_UPLOAD_SIZE_MB
	}

	err := validator.New().Struct(config)
	if err != nil {
		return nil, fmt.Errorf("invalid server config: %v", strings.ReplaceAll(err.Error(), "\n", "; "))
	}

	return &config, nil
}
