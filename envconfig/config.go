package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	// Set via NFADFA_DEBUG in the environment
	Debug bool
	// Set via NFADFA_MAX_STATES in the environment
	MaxStates int
	// Set via NFADFA_SEPARATOR in the environment
	Separator string
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"NFADFA_DEBUG":      {"NFADFA_DEBUG", Debug, "Show additional debug information (e.g. NFADFA_DEBUG=1)"},
		"NFADFA_MAX_STATES": {"NFADFA_MAX_STATES", MaxStates, "Maximum number of DFA states to construct (default 0, unbounded)"},
		"NFADFA_SEPARATOR":  {"NFADFA_SEPARATOR", Separator, "String placed between NFA state names in DFA state labels (default empty)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	Debug = false
	if debug := clean("NFADFA_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	MaxStates = 0
	if ms := clean("NFADFA_MAX_STATES"); ms != "" {
		val, err := strconv.Atoi(ms)
		if err != nil || val < 0 {
			slog.Error("invalid setting, ignoring", "NFADFA_MAX_STATES", ms, "error", err)
		} else {
			MaxStates = val
		}
	}

	Separator = clean("NFADFA_SEPARATOR")
}
