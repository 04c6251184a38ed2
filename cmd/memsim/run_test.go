package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memfit/internal/logger"
)

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		wantContain    []string
		wantNotContain []string
		wantJSON       bool
	}{
		{
			name: "all strategies",
			args: []string{"run", "--seed", "7"},
			wantContain: []string{
				"Simulation: First Fit",
				"Simulation: Next Fit",
				"Simulation: Best Fit",
				"Simulation: Quick Fit",
				"Simulation: Worst Fit",
				"Summary: placed=",
			},
		},
		{
			name:           "single strategy",
			args:           []string{"run", "--seed", "7", "--strategy", "best"},
			wantContain:    []string{"Simulation: Best Fit"},
			wantNotContain: []string{"Simulation: First Fit", "Simulation: Worst Fit"},
		},
		{
			name:        "oversized process",
			args:        []string{"run", "--seed", "1", "--capacity", "8", "--processes", "BIG:9", "--steps", "2"},
			wantContain: []string{"Error: no space for BIG | Memory: [0, 0, 0, 0, 0, 0, 0, 0]"},
		},
		{
			name:        "json report",
			args:        []string{"run", "--seed", "7", "--strategy", "quick,next", "--json"},
			wantJSON:    true,
			wantContain: []string{`"strategy": "Quick Fit"`, `"strategy": "Next Fit"`, `"seed": 7`},
		},
		{
			name:    "unknown strategy",
			args:    []string{"run", "--strategy", "fastest"},
			wantErr: true,
		},
		{
			name:    "zero capacity",
			args:    []string{"run", "--capacity", "0"},
			wantErr: true,
		},
		{
			name:    "malformed process list",
			args:    []string{"run", "--processes", "P1=5"},
			wantErr: true,
		},
		{
			name:    "bad log level",
			args:    []string{"run", "--log-level", "loud"},
			wantErr: true,
		},
		{
			name:    "positional argument",
			args:    []string{"run", "extra"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, tt.args...)

			if (err != nil) != tt.wantErr {
				t.Errorf("run error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
				return
			}

			if tt.wantJSON && !tt.wantErr {
				assertJSON(t, output)
			}

			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestRunCommand_StepCount(t *testing.T) {
	output, err := runCLI(t, "run", "--seed", "3", "--steps", "12", "--strategy", "first,worst")
	require.NoError(t, err)
	assert.Equal(t, 24, strings.Count(output, "| Memory: ["))
}

func TestRunCommand_QuietSuppressesReport(t *testing.T) {
	output, err := runCLI(t, "run", "--seed", "3", "-q")
	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestRunCommand_JSONShape(t *testing.T) {
	output, err := runCLI(t, "run", "--seed", "11", "--steps", "5", "--json")
	require.NoError(t, err)

	var report struct {
		Seed     int64 `json:"seed"`
		Capacity int   `json:"capacity"`
		Results  []struct {
			Strategy string `json:"strategy"`
			Steps    []struct {
				Action string `json:"action"`
				Memory []int  `json:"memory"`
			} `json:"steps"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &report))

	assert.Equal(t, int64(11), report.Seed)
	assert.Equal(t, 32, report.Capacity)
	require.Len(t, report.Results, 5)
	for _, res := range report.Results {
		require.Len(t, res.Steps, 5, res.Strategy)
		for _, st := range res.Steps {
			assert.Len(t, st.Memory, 32)
		}
	}
}

func TestRunCommand_TraceAndMetrics(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "run.csv")
	metricsPath := filepath.Join(dir, "memsim.prom")

	_, err := runCLI(t, "run", "--seed", "5", "--steps", "10", "-q",
		"--trace", tracePath, "--metrics", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1+5*10)
	assert.Equal(t, "RunID, Strategy, Step, Process, Size, Action, Offset, Used", lines[0])

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assertContains(t, string(prom), []string{
		"memsim_outcomes_total",
		`strategy="worst"`,
		"memsim_largest_free_run_units",
	})
}

func TestRunCommand_TraceRefusesExistingFile(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "run.csv")
	require.NoError(t, os.WriteFile(tracePath, []byte("keep"), 0o644))

	_, err := runCLI(t, "run", "--seed", "5", "-q", "--trace", tracePath)
	require.ErrorContains(t, err, "already exists")

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestRunCommand_TraceAutoName(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "run", "--seed", "5", "--steps", "3", "-q", "--trace", "auto")
	require.NoError(t, err)

	matches, err := filepath.Glob("memsim_trace_*.csv")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 1+5*3)
}

func TestRunCommand_VerboseShowsProcesses(t *testing.T) {
	t.Cleanup(func() { logger.Init(logger.Options{}) })

	output, err := runCLI(t, "run", "--seed", "5", "--steps", "2", "-v", "--processes", "A:3, B:4")
	require.NoError(t, err)
	assertContains(t, output, []string{"Capacity: 32 units, 2 steps, seed 5", "Processes: A:3,B:4"})
}

func TestRunCommand_LogsWrittenFiles(t *testing.T) {
	t.Cleanup(func() { logger.Init(logger.Options{}) })
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "run.csv")
	metricsPath := filepath.Join(dir, "memsim.prom")

	logs, err := captureStderr(t, func() error {
		_, err := runCLI(t, "run", "--seed", "5", "--steps", "2", "-q", "--log-level", "info",
			"--trace", tracePath, "--metrics", metricsPath)
		return err
	})
	require.NoError(t, err)
	assertContains(t, logs, []string{
		"msg=\"trace written\" path=" + tracePath,
		"msg=\"metrics written\" path=" + metricsPath,
		"msg=\"simulation finished\"",
	})
	assertNotContains(t, logs, []string{"starting simulation"})
}

func TestRunCommand_WarnsWhenVerifyDisabled(t *testing.T) {
	t.Cleanup(func() { logger.Init(logger.Options{}) })

	logs, err := captureStderr(t, func() error {
		_, err := runCLI(t, "run", "--seed", "5", "--steps", "2", "-q", "--log-level", "warn", "--verify=false")
		return err
	})
	require.NoError(t, err)
	assert.Contains(t, logs, "invariant checks disabled")
}

func TestRunCommand_EnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "memsim.env")
	require.NoError(t, os.WriteFile(envPath, []byte("MEMSIM_STEPS=4\nMEMSIM_STRATEGIES=next\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("MEMSIM_STEPS")
		os.Unsetenv("MEMSIM_STRATEGIES")
	})

	output, err := runCLI(t, "run", "--seed", "9", "--env-file", envPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Simulation: Next Fit")
	assert.NotContains(t, output, "Simulation: First Fit")
	assert.Equal(t, 4, strings.Count(output, "| Memory: ["))

	output, err = runCLI(t, "run", "--seed", "9", "--env-file", envPath, "--steps", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(output, "| Memory: ["), "flags override the env file")
}

func TestRunCommand_MissingEnvFile(t *testing.T) {
	_, err := runCLI(t, "run", "--env-file", filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestStrategiesCommand(t *testing.T) {
	output, err := runCLI(t, "strategies")
	require.NoError(t, err)
	assertContains(t, output, []string{"first", "next", "best", "quick", "worst", "Quick Fit"})

	output, err = runCLI(t, "strategies", "--json")
	require.NoError(t, err)
	assertJSON(t, output)
	assert.Contains(t, output, `"flag": "worst"`)
}

func TestVersionCommand(t *testing.T) {
	output, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "memsim dev")

	flagOutput, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, output, flagOutput)
}
