// Package config loads cpl.toml from the config directory over the registered defaults.
// Every key can also be set through a CPL_ prefixed environment variable.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/filesystem"
	"github.com/copypastelearn/cpl/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps a key such as player.keep_awake to its env suffix PLAYER_KEEP_AWAKE.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads the config file if there is one.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return err
}

// Millis reads an integer key holding milliseconds as a time.Duration.
func Millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}
