package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tablegen/pkg/export"
	"github.com/goliatone/go-tablegen/pkg/locale"
	"github.com/goliatone/go-tablegen/pkg/orchestrator"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/renderers/html"
	"github.com/goliatone/go-tablegen/pkg/renderers/tui"
	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/source/files"
	"github.com/goliatone/go-tablegen/pkg/source/openapi"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// config is the optional YAML document passed with -config.
type config struct {
	ID        string                       `yaml:"id"`
	Locale    string                       `yaml:"locale"`
	Formats   locale.Formats               `yaml:"formats"`
	Buttons   []table.Button               `yaml:"buttons"`
	RowSelect table.SelectMode             `yaml:"rowSelect"`
	Subset    render.ColumnSubset          `yaml:"subset"`
	Preset    string                       `yaml:"preset"`
	Hide      []string                     `yaml:"hide"`
	Messages  map[string]map[string]string `yaml:"messages"`
	Theme     *themeConfig                 `yaml:"theme"`
}

// themeConfig declares an inline theme: class-* tokens override the panel
// classes and every token is also emitted as a CSS variable.
type themeConfig struct {
	Name       string            `yaml:"name"`
	Variant    string            `yaml:"variant"`
	Tokens     map[string]string `yaml:"tokens"`
	Stylesheet string            `yaml:"stylesheet"`
}

func (c *themeConfig) rendererConfig() *theme.RendererConfig {
	if c == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   c.Name,
		Variant: c.Variant,
		Tokens:  c.Tokens,
		CSSVars: make(map[string]string, len(c.Tokens)),
	}
	for name, value := range c.Tokens {
		cfg.CSSVars["--"+name] = value
	}
	stylesheet := c.Stylesheet
	cfg.AssetURL = func(key string) string {
		if key == html.StylesheetAsset {
			return stylesheet
		}
		return ""
	}
	return cfg
}

func main() {
	schemaPath := flag.String("schema", "", "table info document (YAML or JSON)")
	typesPath := flag.String("types", "", "type catalog document (YAML or JSON)")
	rowsPath := flag.String("rows", "", "rows document (YAML or JSON)")
	openapiPath := flag.String("openapi", "", "OpenAPI document used instead of -schema")
	component := flag.String("component", "", "component schema rendered from -openapi")
	configPath := flag.String("config", "", "YAML configuration file")
	format := flag.String("format", "html", "output format: html, xls, xlsx or tui")
	localeTag := flag.String("locale", "", "locale tag, overrides the configuration")
	interactive := flag.Bool("interactive", false, "drive the tui format interactively")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *localeTag != "" {
		cfg.Locale = *localeTag
	}
	if cfg.ID == "" {
		cfg.ID = "tablegen"
	}

	src, err := buildSource(ctx, *schemaPath, *typesPath, *rowsPath, *openapiPath, *component)
	if err != nil {
		log.Fatalf("Failed to build source: %v", err)
	}

	translator := render.NewCatalogTranslator()
	for tag, messages := range cfg.Messages {
		if err := translator.SetMessages(tag, messages); err != nil {
			log.Fatalf("Failed to load messages for %q: %v", tag, err)
		}
	}

	terminal, err := tui.New(tui.WithOutput(os.Stdout))
	if err != nil {
		log.Fatalf("Failed to create tui renderer: %v", err)
	}
	gen, err := newOrchestrator(cfg, terminal)
	if err != nil {
		log.Fatalf("Failed to configure generator: %v", err)
	}

	el, err := gen.Open(ctx, orchestrator.Request{
		ID:     cfg.ID,
		Source: src,
		Table: table.Options{
			Buttons:   cfg.Buttons,
			RowSelect: cfg.RowSelect,
		},
	})
	if err != nil {
		log.Fatalf("Failed to open table: %v", err)
	}
	defer el.Teardown()

	opts := render.RenderOptions{
		Locale:     cfg.Locale,
		Translator: translator,
		Subset:     cfg.Subset,
		Theme:      cfg.Theme.rendererConfig(),
	}

	var (
		out      []byte
		filename = *output
	)
	switch strings.ToLower(strings.TrimSpace(*format)) {
	case "html", "":
		out, err = gen.Render(ctx, el, html.Name, opts)
	case "tui":
		if *interactive {
			err = terminal.Run(ctx, el.Table(), opts)
			if errors.Is(err, tui.ErrAborted) {
				err = nil
			}
			if err != nil {
				log.Fatalf("Session failed: %v", err)
			}
			return
		}
		out, err = gen.Render(ctx, el, tui.Name, opts)
	case string(export.FormatXLS), string(export.FormatXLSX):
		var artifact export.Artifact
		artifact, err = el.Table().Export(export.Format(strings.ToLower(*format)))
		out = artifact.Data
		if filename == "" {
			filename = artifact.Filename
		}
	default:
		log.Fatalf("Unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("Failed to generate table: %v", err)
	}

	if filename != "" {
		if err := os.WriteFile(filename, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Table written to %s\n", filename)
		return
	}
	fmt.Println(string(out))
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func buildSource(ctx context.Context, schemaPath, typesPath, rowsPath, openapiPath, component string) (source.Source, error) {
	if rowsPath == "" {
		return nil, errors.New("-rows is required")
	}
	if openapiPath == "" {
		if schemaPath == "" {
			return nil, errors.New("either -schema or -openapi is required")
		}
		return files.FromPaths(schemaPath, typesPath, rowsPath)
	}

	data, err := os.ReadFile(openapiPath)
	if err != nil {
		return nil, err
	}
	schema, err := openapi.Load(ctx, data, component)
	if err != nil {
		return nil, err
	}
	rows, err := files.FromPaths("", "", rowsPath)
	if err != nil {
		return nil, err
	}
	return source.Join(schema, rows), nil
}

func newOrchestrator(cfg config, terminal *tui.Renderer) (*orchestrator.Orchestrator, error) {
	registry := render.NewRegistry()
	surface, err := html.New()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(surface)
	registry.MustRegister(terminal)

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithLocale(cfg.Locale),
	}
	if cfg.Formats != (locale.Formats{}) {
		options = append(options, orchestrator.WithFormats(cfg.Formats.Merge(locale.Match(cfg.Locale))))
	}
	if len(cfg.Hide) > 0 {
		options = append(options, orchestrator.WithDecorators(orchestrator.HideColumns(cfg.Hide...)))
	}
	if cfg.Preset != "" {
		data, err := os.ReadFile(cfg.Preset)
		if err != nil {
			return nil, err
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(preset))
	}
	return orchestrator.New(options...), nil
}
