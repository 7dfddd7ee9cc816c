package settings

import (
	_ "embed"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/logging"
)

// EnvPrefix is the prefix of environment variables read as settings
const EnvPrefix = "SHINKANSEN_"

// Keys accepted as overrides
const (
	KeyStdinName       = "stdin_name"
	KeyMaxTemplateSize = "max_template_size"
	KeyFileMode        = "file_permissions.file"
	KeyDirMode         = "file_permissions.directory"
)

//go:embed defaults.toml
var defaultSettings []byte

// Settings holds the tool configuration
type Settings struct {
	StdinName       string          `koanf:"stdin_name"`
	MaxTemplateSize int64           `koanf:"max_template_size"`
	FilePermissions FilePermissions `koanf:"file_permissions"`
}

// FilePermissions are the modes used for created files and directories
type FilePermissions struct {
	File      uint32 `koanf:"file"`
	Directory uint32 `koanf:"directory"`
}

// FileMode returns the mode for rendered files
func (s *Settings) FileMode() fs.FileMode {
	return fs.FileMode(s.FilePermissions.File)
}

// DirMode returns the mode for created directories
func (s *Settings) DirMode() fs.FileMode {
	return fs.FileMode(s.FilePermissions.Directory)
}

// LoadOptions controls where settings are read from
type LoadOptions struct {
	// UserFile overrides the user settings path; empty means DefaultPath()
	UserFile string
	// Overrides are applied last, keyed by dotted setting name
	Overrides map[string]interface{}
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// DefaultPath returns the user settings file location
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "shinkansen", "config.toml")
}

// Defaults returns the embedded defaults only
func Defaults() *Settings {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		// the embedded file is part of the binary
		panic(err)
	}
	s, err := decode(k)
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads all settings layers
func Load(opts LoadOptions) (*Settings, error) {
	logger := logging.GetLogger("settings")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to load default settings")
	}

	// 2. User file if it exists
	userFile := opts.UserFile
	if userFile == "" {
		userFile = DefaultPath()
	}
	if info, err := os.Stat(userFile); err == nil && info.Mode().IsRegular() {
		if err := k.Load(file.Provider(userFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSettings,
				"failed to load settings from %s", userFile)
		}
		logger.Debug().Str("path", userFile).Msg("Loaded user settings")
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to load settings from environment")
	}

	// 4. Flag overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrSettings, "failed to apply overrides")
		}
	}

	return decode(k)
}

func decode(k *koanf.Koanf) (*Settings, error) {
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to decode settings")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the settings are usable
func (s *Settings) Validate() error {
	name := s.StdinName
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Newf(errors.ErrSettings,
			"stdin_name must be a plain file name, got %q", name)
	}
	if s.MaxTemplateSize <= 0 {
		return errors.Newf(errors.ErrSettings,
			"max_template_size must be positive, got %d", s.MaxTemplateSize)
	}
	if s.FilePermissions.File == 0 || s.FilePermissions.Directory == 0 {
		return errors.New(errors.ErrSettings, "file permissions cannot be zero")
	}
	return nil
}
