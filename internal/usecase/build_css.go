package usecase

import (
	"context"
	"fmt"
	"path"

	"github.com/3-lines-studio/gacha/internal/adapters/cli"
	"github.com/3-lines-studio/gacha/internal/core"
)

type BuildCSSInput struct {
	ConfigPath string
	OutDir     string
}

type BuildCSSOutput struct {
	Success    bool
	Stylesheet Stylesheet
	Manifest   *core.Manifest
	Error      error
}

type BuildService struct {
	fs  FileSystem
	out FileSystem
	cli CLIOutput
}

// NewBuildService reads sources from src and writes build output to out.
func NewBuildService(src, out FileSystem, output CLIOutput) *BuildService {
	return &BuildService{
		fs:  src,
		out: out,
		cli: output,
	}
}

func (s *BuildService) BuildCSS(ctx context.Context, input BuildCSSInput) BuildCSSOutput {
	s.cli.PrintHeader("Gacha CSS")

	report := cli.NewBuildReport(s.cli, input.OutDir)

	step := report.StartStep("Compile theme")
	sheet, err := CompileTheme(s.fs, input.ConfigPath)
	if err != nil {
		report.EndStep(step, false, err.Error())
		report.AddError(input.ConfigPath, "theme compilation failed", []string{err.Error()})
		report.Render()
		return BuildCSSOutput{Error: err}
	}
	report.EndStep(step, true, "")
	report.SetCounts(len(sheet.Files), len(sheet.Classes))

	if err := ctx.Err(); err != nil {
		return BuildCSSOutput{Error: err}
	}

	step = report.StartStep("Write stylesheet")
	manifest := core.NewManifest()
	manifest.Add(ThemeAsset, sheet.Name, sheet.CSS)

	if err := s.write(input.OutDir, sheet, manifest); err != nil {
		report.EndStep(step, false, err.Error())
		report.AddError(input.OutDir, "write failed", []string{err.Error()})
		report.Render()
		return BuildCSSOutput{Error: err}
	}
	report.EndStep(step, true, "")

	s.cli.PrintFile(path.Join(input.OutDir, sheet.Name))
	report.Render()

	return BuildCSSOutput{
		Success:    true,
		Stylesheet: sheet,
		Manifest:   manifest,
	}
}

func (s *BuildService) write(dir string, sheet Stylesheet, manifest *core.Manifest) error {
	if err := s.out.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := s.out.WriteFile(path.Join(dir, sheet.Name), sheet.CSS, 0o644); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}

	data, err := manifest.Marshal()
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := s.out.WriteFile(path.Join(dir, "manifest.json"), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
