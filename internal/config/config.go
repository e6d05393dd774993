// Package config loads fingercount settings from a .env file, the
// environment and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/logging"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FINGERCOUNT_"

// Config holds every runtime option. The zero-flag defaults reproduce the
// plain desktop finger counter: first webcam, mirrored, window display.
type Config struct {
	Capture  capture.Config
	Detector detector.Config
	Log      logging.Options

	Mirror   bool
	Headless bool
	Tray     bool

	Listen    string `validate:"omitempty,hostname_port"`
	StaticDir string `validate:"omitempty,dir"`

	Record bool
	DBPath string `validate:"required_if=Record true"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Capture:  capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		Log:      logging.Options{Level: "info"},
		Mirror:   true,
		DBPath:   defaultDBPath(),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fingercount.db"
	}
	return filepath.Join(home, ".fingercount", "fingercount.db")
}

// Load builds a Config from envFile (ignored when missing), FINGERCOUNT_*
// environment variables and args. It returns flag.ErrHelp for -h.
func Load(args []string, envFile string, usage io.Writer) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	env := envLookup{}

	fs := flag.NewFlagSet("fingercount", flag.ContinueOnError)
	fs.SetOutput(usage)

	fs.IntVar(&cfg.Capture.DeviceID, "camera", env.getInt("CAMERA", cfg.Capture.DeviceID), "camera device index")
	fs.IntVar(&cfg.Capture.Width, "width", env.getInt("WIDTH", cfg.Capture.Width), "requested frame width")
	fs.IntVar(&cfg.Capture.Height, "height", env.getInt("HEIGHT", cfg.Capture.Height), "requested frame height")
	fs.IntVar(&cfg.Capture.FPS, "fps", env.getInt("FPS", cfg.Capture.FPS), "requested capture rate")
	fs.BoolVar(&cfg.Mirror, "mirror", env.getBool("MIRROR", cfg.Mirror), "flip frames horizontally (selfie view)")

	fs.IntVar(&cfg.Detector.MaxHands, "max-hands", env.getInt("MAX_HANDS", cfg.Detector.MaxHands), "maximum hands tracked at once")
	fs.Float64Var(&cfg.Detector.MinDetectionConfidence, "min-detection-confidence",
		env.getFloat("MIN_DETECTION_CONFIDENCE", cfg.Detector.MinDetectionConfidence), "reject palm candidates below this score")
	fs.Float64Var(&cfg.Detector.MinTrackingConfidence, "min-tracking-confidence",
		env.getFloat("MIN_TRACKING_CONFIDENCE", cfg.Detector.MinTrackingConfidence), "reject tracked landmarks below this score")
	fs.IntVar(&cfg.Detector.ModelComplexity, "model-complexity", env.getInt("MODEL_COMPLEXITY", cfg.Detector.ModelComplexity), "landmark model (0 lite, 1 full)")

	fs.BoolVar(&cfg.Headless, "headless", env.getBool("HEADLESS", cfg.Headless), "do not open a display window")
	fs.BoolVar(&cfg.Tray, "tray", env.getBool("TRAY", cfg.Tray), "show the running total in the system tray")
	fs.StringVar(&cfg.Listen, "listen", env.getString("LISTEN", cfg.Listen), "serve the live view on this address, e.g. localhost:8080")
	fs.StringVar(&cfg.StaticDir, "static-dir", env.getString("STATIC_DIR", cfg.StaticDir), "directory of static files for the live view")
	fs.BoolVar(&cfg.Record, "record", env.getBool("RECORD", cfg.Record), "record per-frame counts to the session database")
	fs.StringVar(&cfg.DBPath, "db", env.getString("DB", cfg.DBPath), "session database path")

	fs.StringVar(&cfg.Log.Level, "log-level", env.getString("LOG_LEVEL", cfg.Log.Level), "trace, debug, info, warn or error")
	fs.StringVar(&cfg.Log.File, "log-file", env.getString("LOG_FILE", cfg.Log.File), "also write logs to this rotated file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if err := env.err(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks option ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.ActualTag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envLookup reads FINGERCOUNT_* variables and collects parse errors.
type envLookup struct {
	errs []error
}

func (e *envLookup) raw(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	return v, ok && v != ""
}

func (e *envLookup) getString(key, def string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return def
}

func (e *envLookup) getInt(key string, def int) int {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return def
	}
	return n
}

func (e *envLookup) getFloat(key string, def float64) float64 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return def
	}
	return f
}

func (e *envLookup) getBool(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return def
	}
	return b
}

func (e *envLookup) err() error {
	return errors.Join(e.errs...)
}
