// Command analyze runs one resume through the analysis pipeline and prints the
// result as JSON.
//
//	analyze -pdf resume.pdf [-job "..." | -job-file jd.txt]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadilmartias/resume-analyzer/internal/bootstrap"
	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/joho/godotenv"
)

const (
	exitOther  = 1
	exitLoad   = 2
	exitAPI    = 3
	exitParse  = 4
	exitSchema = 5
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pdfPath := fs.String("pdf", "", "path to the resume PDF (required)")
	job := fs.String("job", "", "job description text")
	jobFile := fs.String("job-file", "", "file containing the job description")
	envFile := fs.String("env", ".env", "dotenv file to load if present")
	if err := fs.Parse(args); err != nil {
		return exitOther
	}

	if *pdfPath == "" {
		fmt.Fprintln(stderr, "error: -pdf is required")
		fs.Usage()
		return exitOther
	}
	if *job != "" && *jobFile != "" {
		fmt.Fprintln(stderr, "error: use either -job or -job-file, not both")
		return exitOther
	}

	jobDescription := *job
	if *jobFile != "" {
		b, err := os.ReadFile(*jobFile)
		if err != nil {
			fmt.Fprintf(stderr, "error: read job description: %v\n", err)
			return exitOther
		}
		jobDescription = string(b)
	}

	if err := loadEnvFile(*envFile); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitOther
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: invalid configuration: %v\n", err)
		return exitOther
	}
	bootstrap.InitLogger(cfg.App, stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitOther
	}
	defer deps.Close()

	return analyze(ctx, deps.Analysis, *pdfPath, jobDescription, stdout, stderr)
}

type fileAnalyzer interface {
	AnalyzeFile(ctx context.Context, path, jobDescription string) (*usecase.AnalysisOutcome, error)
}

// analyze prints the result JSON on stdout. Non-fatal failures become
// warnings on stderr and do not change the exit code.
func analyze(ctx context.Context, uc fileAnalyzer, pdfPath, jobDescription string, stdout, stderr io.Writer) int {
	outcome, err := uc.AnalyzeFile(ctx, pdfPath, jobDescription)
	if err != nil {
		return reportError(stderr, err)
	}

	for _, w := range outcome.Warnings() {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome.Result); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitOther
	}
	return 0
}

// loadEnvFile loads path into the environment. A missing file is fine.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func reportError(stderr io.Writer, err error) int {
	stage, msg := usecase.Describe(err)
	if stage == "" {
		if errors.Is(err, context.Canceled) {
			msg = "interrupted"
		}
		fmt.Fprintf(stderr, "error: %s\n", msg)
		return exitOther
	}
	fmt.Fprintf(stderr, "error [%s]: %s\n", stage, msg)
	return exitCode(stage)
}

func exitCode(stage model.Stage) int {
	switch stage {
	case model.StageLoad:
		return exitLoad
	case model.StageAPI:
		return exitAPI
	case model.StageParse:
		return exitParse
	case model.StageSchema:
		return exitSchema
	}
	return exitOther
}
