// Package config loads drawrec.toml.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"drawrec/internal/graph"
	"drawrec/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "drawrec.toml"

// ErrUnknownKeys is returned when the file contains keys drawrec does not
// understand.
var ErrUnknownKeys = errors.New("unknown configuration keys")

// Config mirrors drawrec.toml.
type Config struct {
	Report Report `toml:"report"`
	Track  Track  `toml:"track"`
	Graph  Graph  `toml:"graph"`
	Trace  Trace  `toml:"trace"`
}

// Report selects reporters and where they write.
type Report struct {
	Stdout    bool   `toml:"stdout"`
	Graph     bool   `toml:"graph"`
	Dir       string `toml:"dir"`
	Overwrite bool   `toml:"overwrite"`
	Archive   bool   `toml:"archive"`
	Tree      bool   `toml:"tree"`
	DepthPlot bool   `toml:"depth_plot"`
}

// Track holds per-function tracking options.
type Track struct {
	IgnoreKwargs []string `toml:"ignore_kwargs"`
}

// Graph configures DOT output.
type Graph struct {
	Name          string `toml:"name"`
	ErrorColor    string `toml:"error_color"`
	LeafColor     string `toml:"leaf_color"`
	InternalColor string `toml:"internal_color"`
}

// Trace configures the event tracer.
type Trace struct {
	Level     string   `toml:"level"`
	Mode      string   `toml:"mode"`
	Output    string   `toml:"output"`
	RingSize  int      `toml:"ring_size"`
	Heartbeat duration `toml:"heartbeat"`
}

// duration decodes TOML strings such as "500ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Report: Report{Graph: true},
		Graph: Graph{
			ErrorColor:    graph.DefaultPalette.Error,
			LeafColor:     graph.DefaultPalette.Leaf,
			InternalColor: graph.DefaultPalette.Internal,
		},
		Trace: Trace{Level: "off", Mode: "stream", Output: "-", RingSize: 1024},
	}
}

// Load decodes path over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.Wrapf(ErrUnknownKeys, "%s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Validate checks values that TOML decoding cannot.
func (c Config) Validate() error {
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return errors.Wrap(err, "trace.level")
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return errors.Wrap(err, "trace.mode")
	}
	if c.Trace.RingSize < 0 {
		return errors.Newf("trace.ring_size: must not be negative, got %d", c.Trace.RingSize)
	}
	if c.Trace.Heartbeat.Duration < 0 {
		return errors.Newf("trace.heartbeat: must not be negative, got %s", c.Trace.Heartbeat.Duration)
	}
	return nil
}

// Palette returns the graph colors. Blank entries fall back to
// graph.DefaultPalette when rendering.
func (c Config) Palette() graph.Palette {
	return graph.Palette{
		Error:    strings.TrimSpace(c.Graph.ErrorColor),
		Leaf:     strings.TrimSpace(c.Graph.LeafColor),
		Internal: strings.TrimSpace(c.Graph.InternalColor),
	}
}

// TraceConfig converts the [trace] section. Validate must have passed.
func (c Config) TraceConfig() trace.Config {
	level, _ := trace.ParseLevel(c.Trace.Level)
	mode, _ := trace.ParseMode(c.Trace.Mode)
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
		Heartbeat:  c.Trace.Heartbeat.Duration,
	}
}

// Find walks up from startDir to locate drawrec.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, errors.Wrapf(err, "failed to stat %q", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads explicit when it is set, otherwise the nearest drawrec.toml
// above startDir, otherwise Default. The returned path is empty when no file
// was read.
func Discover(explicit, startDir string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}
