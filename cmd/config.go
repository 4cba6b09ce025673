package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envPrefix = "BUMP"

	preidKey                = "preid"
	commitKey               = "commit"
	tagKey                  = "tag"
	pushKey                 = "push"
	signKey                 = "sign"
	allKey                  = "all"
	noVerifyKey             = "no-verify"
	noGitCheckKey           = "no-git-check"
	confirmKey              = "confirm"
	recursiveKey            = "recursive"
	ignoreScriptsKey        = "ignore-scripts"
	executeKey              = "execute"
	filesKey                = "files"
	printCommitsKey         = "print-commits"
	customVersionCommandKey = "custom-version-command"
	currentVersionKey       = "current-version"
	quietKey                = "quiet"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// configFiles are looked up in the working directory, first match wins.
var configFiles = []string{"bump.config.yaml", "bump.config.yml", ".bumprc.yaml", ".bumprc.yml"}

// newConfig returns a viper instance with the environment binding and the
// defaults applied. Config files are read later by readConfig, once the
// working directory is known.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault(commitKey, "true")
	v.SetDefault(tagKey, "true")
	v.SetDefault(pushKey, true)
	v.SetDefault(signKey, false)
	v.SetDefault(confirmKey, true)
	v.SetDefault(recursiveKey, false)
	v.SetDefault(printCommitsKey, true)
	v.SetDefault(filesKey, []string{})

	v.SetDefault(logFilenameKey, "")
	v.SetDefault(logLevelKey, "")
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)
	return v
}

// readConfig loads the first config file found in dir. No config file is not
// an error. It returns the file that was read, if any.
func readConfig(v *viper.Viper, dir string) (string, error) {
	for _, name := range configFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("reading %s: %w", name, err)
		}
		return path, nil
	}
	return "", nil
}

// optionalValue interprets a config value that is either a boolean or a
// template string, such as the commit message or the tag name.
func optionalValue(s string) (enabled bool, template string) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "no":
		return false, ""
	case "true", "1", "yes":
		return true, ""
	}
	return true, s
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels work too (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger builds the logger for a run and installs it as the default.
//
// It logs to stderr at Warn, or at Debug when verbose is set. When a log file
// is configured the same records are also written there through lumberjack.
func configureLogger(v *viper.Viper, stderr io.Writer, cwd string, verbose bool) *slog.Logger {
	logLevel := parseSlogLevel(v.GetString(logLevelKey), slog.LevelWarn)
	if verbose {
		logLevel = slog.LevelDebug
	}

	w := stderr
	if logPath := strings.TrimSpace(v.GetString(logFilenameKey)); logPath != "" {
		if !filepath.IsAbs(logPath) {
			logPath = filepath.Join(cwd, logPath)
		}
		w = io.MultiWriter(stderr, &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    v.GetInt(logMaxSizeKey),
			MaxBackups: v.GetInt(logMaxBackupsKey),
			MaxAge:     v.GetInt(logMaxAgeKey),
			Compress:   v.GetBool(logCompressKey),
		})
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: verbose,
		Level:     logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
