package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mini/interpreter-go/pkg/interpreter"
	"mini/interpreter-go/pkg/parser"
)

const (
	// ConfigFileName is the file FindConfig searches for.
	ConfigFileName = "mini.yml"
	// ConfigEnvVar names an explicit config file.
	ConfigEnvVar = "MINI_CONFIG"
)

// Config represents the parsed contents of mini.yml.
type Config struct {
	Path        string            `yaml:"-"`
	Parser      ParserConfig      `yaml:"parser"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Playground  PlaygroundConfig  `yaml:"playground"`
}

type ParserConfig struct {
	Associativity string `yaml:"associativity"`
	MaxDepth      int    `yaml:"max_depth"`
}

type InterpreterConfig struct {
	DuplicateCheck  string `yaml:"duplicate_check"`
	MaxSteps        int    `yaml:"max_steps"`
	MaxCallDepth    int    `yaml:"max_call_depth"`
	MaxNestingDepth int    `yaml:"max_nesting_depth"`
	Trace           bool   `yaml:"trace"`
}

type PlaygroundConfig struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig is used when no config file is found; LoadConfig decodes on
// top of it so omitted keys keep these values.
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			Associativity: string(parser.AssociativityLeft),
			MaxDepth:      parser.DefaultMaxDepth,
		},
		Interpreter: InterpreterConfig{
			DuplicateCheck:  string(interpreter.DuplicateCheckStack),
			MaxCallDepth:    interpreter.DefaultMaxCallDepth,
			MaxNestingDepth: interpreter.DefaultMaxNestingDepth,
		},
		Playground: PlaygroundConfig{
			Addr:    "127.0.0.1:8080",
			Timeout: 5 * time.Second,
		},
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses mini.yml from disk, returning a validated config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig walks from start up to the filesystem root looking for
// mini.yml.
func FindConfig(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ResolveConfig loads the explicit path if given, then $MINI_CONFIG, then the
// nearest mini.yml above start, and falls back to DefaultConfig.
func ResolveConfig(explicit, start string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	if env := strings.TrimSpace(os.Getenv(ConfigEnvVar)); env != "" {
		return LoadConfig(env)
	}
	if start != "" {
		if path, ok := FindConfig(start); ok {
			return LoadConfig(path)
		}
	}
	return DefaultConfig(), nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if _, err := parser.ParseAssociativity(c.Parser.Associativity); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("parser.associativity: %v", err))
	}
	if _, err := interpreter.ParseDuplicateCheck(c.Interpreter.DuplicateCheck); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("interpreter.duplicate_check: %v", err))
	}
	if c.Parser.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, "parser.max_depth must not be negative")
	}
	if c.Interpreter.MaxSteps < 0 {
		errs.Issues = append(errs.Issues, "interpreter.max_steps must not be negative")
	}
	if c.Interpreter.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "interpreter.max_call_depth must not be negative")
	}
	if c.Interpreter.MaxNestingDepth < 0 {
		errs.Issues = append(errs.Issues, "interpreter.max_nesting_depth must not be negative")
	}
	if strings.TrimSpace(c.Playground.Addr) == "" {
		errs.Issues = append(errs.Issues, "playground.addr must be provided")
	}
	if c.Playground.Timeout < 0 {
		errs.Issues = append(errs.Issues, "playground.timeout must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ParserOptions converts the parser section.
func (c *Config) ParserOptions() (parser.Options, error) {
	assoc, err := parser.ParseAssociativity(c.Parser.Associativity)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{Associativity: assoc, MaxDepth: c.Parser.MaxDepth}, nil
}

// InterpreterOptions converts the interpreter section. Logger and Sink are
// left for the caller.
func (c *Config) InterpreterOptions() (interpreter.Options, error) {
	check, err := interpreter.ParseDuplicateCheck(c.Interpreter.DuplicateCheck)
	if err != nil {
		return interpreter.Options{}, err
	}
	return interpreter.Options{
		DuplicateCheck:  check,
		MaxSteps:        c.Interpreter.MaxSteps,
		MaxCallDepth:    c.Interpreter.MaxCallDepth,
		MaxNestingDepth: c.Interpreter.MaxNestingDepth,
	}, nil
}
