package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sales-assistant/internal/config"
	"github.com/jonathan/sales-assistant/internal/llm"
	"github.com/jonathan/sales-assistant/internal/observability"
	"github.com/jonathan/sales-assistant/internal/prompt"
)

// fakeClient scripts the completion service: each call pops the next
// result, and the last one repeats once the script runs out.
type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	requests  []llm.Request
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	i := f.calls
	f.calls++
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if len(f.responses) == 0 {
		return "生成的内容", nil
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func (f *fakeClient) Close() error { return nil }

func writeDocx(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func testConfig(t *testing.T) config.Config {
	root := t.TempDir()
	cfg := config.Config{
		DataDir:     filepath.Join(root, "data"),
		OutputDir:   filepath.Join(root, "output"),
		MaxAttempts: 3,
	}
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	return cfg
}

func newTestOrchestrator(cfg config.Config, client llm.Client, out *bytes.Buffer) *Orchestrator {
	if out == nil {
		out = &bytes.Buffer{}
	}
	o := New(cfg, client, observability.NewPrinter(out, out))
	o.retry.InitialDelay = 0
	return o
}

func TestRunAnalysisExplicitInput(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "终身寿险.docx")
	writeDocx(t, product, "产品细节")

	client := &fakeClient{responses: []string{"分析结果正文"}}
	o := newTestOrchestrator(cfg, client, nil)

	artifact, err := o.Run(context.Background(), Request{
		Mode:   prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{prompt.RoleProduct: product},
	})
	require.NoError(t, err)

	assert.Equal(t, prompt.ModeAnalysis, artifact.Mode)
	assert.Equal(t, "分析结果正文", artifact.RawResponse)
	assert.Contains(t, artifact.OutputPath, "analysis_reports")
	assert.Contains(t, filepath.Base(artifact.OutputPath), "product_analysis")

	report, err := os.ReadFile(artifact.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "产品分析报告")
	assert.Contains(t, string(report), "分析结果正文")
	assert.Contains(t, string(report), "报告结束")
}

func TestRunPersistsExtractionRecord(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "p.docx")
	writeDocx(t, product, "产品")

	o := newTestOrchestrator(cfg, &fakeClient{}, nil)
	_, err := o.Run(context.Background(), Request{
		Mode:   prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{prompt.RoleProduct: product},
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.ExtractedDataDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))
}

func TestRunAutoResolvesLatestInput(t *testing.T) {
	cfg := testConfig(t)
	writeDocx(t, filepath.Join(cfg.DataDir, "product", "产品说明.docx"), "自动解析的产品")

	client := &fakeClient{}
	o := newTestOrchestrator(cfg, client, nil)

	_, err := o.Run(context.Background(), Request{Mode: prompt.ModeAnalysis})
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].UserContent, "自动解析的产品")
}

func TestRunMissingRequiredInputFailsBeforeExtraction(t *testing.T) {
	cfg := testConfig(t)

	o := newTestOrchestrator(cfg, &fakeClient{}, nil)
	_, err := o.Run(context.Background(), Request{Mode: prompt.ModeAnalysis})
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StateResolving, se.Stage)

	var mie *prompt.MissingInputError
	require.True(t, errors.As(err, &mie))
	assert.Equal(t, prompt.RoleProduct, mie.Role)

	// nothing was extracted or generated
	assert.NoDirExists(t, cfg.ExtractedDataDir())
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "analysis_reports"))
}

func TestRunDropsBrokenOptionalInput(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "p.docx")
	writeDocx(t, product, "产品内容")
	broken := filepath.Join(cfg.DataDir, "competitor", "竞品.docx")
	require.NoError(t, os.MkdirAll(filepath.Dir(broken), 0o755))
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0o644))

	var out bytes.Buffer
	client := &fakeClient{}
	o := newTestOrchestrator(cfg, client, &out)

	artifact, err := o.Run(context.Background(), Request{
		Mode: prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{
			prompt.RoleProduct:    product,
			prompt.RoleCompetitor: broken,
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, artifact)

	assert.Contains(t, out.String(), "warning:")
	assert.Contains(t, out.String(), "竞品.docx")
	require.Len(t, client.requests, 1)
	assert.NotContains(t, client.requests[0].UserContent, "竞品信息")
}

// A quiet run discards progress output but must still surface the
// warning for a dropped optional input.
func TestRunWarningSurvivesMutedProgress(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "p.docx")
	writeDocx(t, product, "产品内容")
	broken := filepath.Join(cfg.DataDir, "competitor", "竞品.docx")
	require.NoError(t, os.MkdirAll(filepath.Dir(broken), 0o755))
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0o644))

	var warn bytes.Buffer
	o := New(cfg, &fakeClient{}, observability.NewPrinter(io.Discard, &warn))
	o.retry.InitialDelay = 0

	_, err := o.Run(context.Background(), Request{
		Mode: prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{
			prompt.RoleProduct:    product,
			prompt.RoleCompetitor: broken,
		},
	})
	require.NoError(t, err)
	assert.Contains(t, warn.String(), "warning:")
	assert.Contains(t, warn.String(), "竞品.docx")
}

func TestRunOptionalDiscoveryFailureWarnsAndContinues(t *testing.T) {
	root := t.TempDir()
	cfg := config.Config{
		DataDir:     filepath.Join(root, "missing-data"),
		OutputDir:   filepath.Join(root, "output"),
		MaxAttempts: 3,
	}
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))

	product := filepath.Join(root, "elsewhere", "p.docx")
	writeDocx(t, product, "产品内容")

	var out bytes.Buffer
	o := newTestOrchestrator(cfg, &fakeClient{}, &out)

	// competitor auto-resolution scans the unreadable data root; the
	// required product input is explicit, so the run must succeed
	artifact, err := o.Run(context.Background(), Request{
		Mode:   prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{prompt.RoleProduct: product},
	})
	require.NoError(t, err)
	assert.NotNil(t, artifact)
	assert.Contains(t, out.String(), "warning:")
	assert.Contains(t, out.String(), "competitor")
}

func TestRunRequiredDiscoveryFailureFails(t *testing.T) {
	root := t.TempDir()
	cfg := config.Config{
		DataDir:     filepath.Join(root, "missing-data"),
		OutputDir:   filepath.Join(root, "output"),
		MaxAttempts: 3,
	}

	o := newTestOrchestrator(cfg, &fakeClient{}, nil)
	_, err := o.Run(context.Background(), Request{Mode: prompt.ModeAnalysis})
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StateResolving, se.Stage)
}

func TestRunBrokenRequiredInputFails(t *testing.T) {
	cfg := testConfig(t)
	broken := filepath.Join(cfg.DataDir, "product", "p.docx")
	require.NoError(t, os.MkdirAll(filepath.Dir(broken), 0o755))
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0o644))

	o := newTestOrchestrator(cfg, &fakeClient{}, nil)
	_, err := o.Run(context.Background(), Request{
		Mode:   prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{prompt.RoleProduct: broken},
	})
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StateExtracting, se.Stage)
}

func TestRunRetriesTransientCompletionFailure(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "p.docx")
	writeDocx(t, product, "产品")

	client := &fakeClient{
		responses: []string{"", "最终结果"},
		errs:      []error{&llm.CompletionError{Status: 503, Message: "overloaded", Transient: true}, nil},
	}
	o := newTestOrchestrator(cfg, client, nil)

	artifact, err := o.Run(context.Background(), Request{
		Mode:   prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{prompt.RoleProduct: product},
	})
	require.NoError(t, err)
	assert.Equal(t, "最终结果", artifact.RawResponse)
	assert.Equal(t, 2, client.calls)
}

func TestRunCompletionFailureHasStage(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "p.docx")
	writeDocx(t, product, "产品")

	client := &fakeClient{
		errs: []error{
			&llm.CompletionError{Status: 401, Message: "bad key"},
		},
	}
	o := newTestOrchestrator(cfg, client, nil)

	_, err := o.Run(context.Background(), Request{
		Mode:   prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{prompt.RoleProduct: product},
	})
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StateCompleting, se.Stage)
	assert.Equal(t, 1, client.calls)
}

func TestRunOutputPathsAreUnique(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "p.docx")
	writeDocx(t, product, "产品")

	o := newTestOrchestrator(cfg, &fakeClient{}, nil)
	req := Request{
		Mode:   prompt.ModeAnalysis,
		Inputs: map[prompt.Role]string{prompt.RoleProduct: product},
	}

	first, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := o.Run(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.OutputPath, second.OutputPath)
	assert.FileExists(t, first.OutputPath)
	assert.FileExists(t, second.OutputPath)
}

func TestRunScriptDiscriminatorInFileName(t *testing.T) {
	cfg := testConfig(t)
	product := filepath.Join(cfg.DataDir, "product", "p.docx")
	writeDocx(t, product, "产品")

	o := newTestOrchestrator(cfg, &fakeClient{}, nil)
	artifact, err := o.Run(context.Background(), Request{
		Mode:    prompt.ModeScript,
		Inputs:  map[prompt.Role]string{prompt.RoleProduct: product},
		Options: prompt.Options{Tone: "friendly"},
	})
	require.NoError(t, err)

	assert.Contains(t, artifact.OutputPath, "sales_scripts")
	assert.Contains(t, filepath.Base(artifact.OutputPath), "sales_script_friendly")
}

func TestRunInvalidMode(t *testing.T) {
	o := newTestOrchestrator(testConfig(t), &fakeClient{}, nil)
	_, err := o.Run(context.Background(), Request{Mode: prompt.Mode("poem")})
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StateResolving, se.Stage)
}

func TestRunInvalidOptions(t *testing.T) {
	o := newTestOrchestrator(testConfig(t), &fakeClient{}, nil)
	_, err := o.Run(context.Background(), Request{
		Mode:    prompt.ModeScript,
		Options: prompt.Options{Tone: "shouty"},
	})
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StateResolving, se.Stage)
}

func TestOutputSubdir(t *testing.T) {
	assert.Equal(t, "analysis_reports", outputSubdir(prompt.ModeAnalysis))
	assert.Equal(t, "sales_scripts", outputSubdir(prompt.ModeScript))
	assert.Equal(t, "presentations", outputSubdir(prompt.ModePresentation))
	assert.Equal(t, "recommendations", outputSubdir(prompt.ModeRecommendation))
	assert.Equal(t, "emails", outputSubdir(prompt.ModeEmail))
}

func TestArtifactBase(t *testing.T) {
	assert.Equal(t, "product_analysis", artifactBase(prompt.ModeAnalysis, prompt.Options{}))
	assert.Equal(t, "sales_script_professional", artifactBase(prompt.ModeScript, prompt.Options{}))
	assert.Equal(t, "presentation_executive", artifactBase(prompt.ModePresentation, prompt.Options{PresentationType: "executive"}))
	assert.Equal(t, "email_follow_up", artifactBase(prompt.ModeEmail, prompt.Options{EmailPurpose: "follow_up"}))
}
