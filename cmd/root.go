/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	devConfig "github.com/Daskott/rolodex/dev/config"
	"github.com/Daskott/rolodex/utils"
	"github.com/Daskott/rolodex/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "ROLODEX"

var (
	cfgFile  string
	config   *viper.Viper
	isDevEnv bool

	yellow       = color.New(color.FgYellow).SprintFunc()
	red          = color.New(color.FgRed).SprintFunc()
	warningLabel = yellow("Warning:")
)

// rootCmd represents the base command when called without any subcommands.
// Subcommands add themselves to it from their own init funcs, so it must be
// set before any init runs.
var rootCmd = createRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = fmt.Sprintf("v%s", version.Version)
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "rolodex",
		Short: `rolodex is a small contact book served over HTTP.

It keeps your contacts, their phones & emails and the groups they belong to
in an encrypted sqlite db.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rolodex.yaml)")
	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")

	return cmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config = newConfig()

	if cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(cfgFile)
	} else {
		configFilePath, err := defaultConfigFilePath()
		cobra.CheckErr(err)

		// If config file is not found, create one with the default content
		exists, err := utils.FileExist(configFilePath)
		cobra.CheckErr(err)
		if !exists {
			cobra.CheckErr(utils.CreateDirIfNotExist(filepath.Dir(configFilePath)))
			cobra.CheckErr(ioutil.WriteFile(configFilePath, []byte(defaultConfigValue()), 0600))
			fmt.Fprintln(os.Stderr, warningLabel, "created default config file:", configFilePath)
		}

		config.SetConfigFile(configFilePath)
		config.SetConfigType("yaml")
	}

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		cobra.CheckErr(formattedError("error reading config file: %v", err))
	}

	fmt.Fprintln(os.Stderr, "Using config file:", config.ConfigFileUsed())
}

// newConfig returns a viper instance where every key can be overridden by an
// env var, e.g. 'sqlite.passPhrase' by ROLODEX_SQLITE_PASSPHRASE.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	return v
}

func defaultConfigFilePath() (string, error) {
	if isDevEnv {
		configDir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(configDir, "dev", "config", "server.yml"), nil
	}

	// Use home directory for production
	configDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".rolodex.yaml"), nil
}

// defaultConfigValue returns the default content for the config file
func defaultConfigValue() string {
	if isDevEnv {
		return devConfig.SERVER_YML
	}

	return `rolodex:
  listener:
    port: 3000
  # Where the db & avatars are kept, defaults to $HOME/rolodex
  dataDir:
  avatars:
    maxUploadSizeMB: 5

sqlite:
  # Key used to encrypt the db. Can also be set with ROLODEX_SQLITE_PASSPHRASE
  passPhrase: <A secret passphrase>

google:
  # Path to the JSON file that contains your service account key. Only
  # needed to keep avatars in google storage or to backup the db.
  applicationCredentials:
  storage:
    bucket:
    prefix: rolodex
    enableAvatarStorage: false
`
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(red(format), a...)
}
