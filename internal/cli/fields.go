package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// parseSet turns repeated key=value flags into a field map. Values stay strings;
// decodeFields converts them to the input's types. A later pair overrides an
// earlier one with the same key.
func parseSet(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", p)
		}
		fields[k] = v
	}
	return fields, nil
}

// decodeFields decodes a field map into one of the adminapi input structs.
// Strings are converted weakly ("80" into *int, "true" into *bool) and
// comma-separated strings become lists. Keys the struct does not name land in
// its Extra map.
func decodeFields(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("invalid fields: %w", err)
	}
	return nil
}

// mergeFields returns base overlaid with override.
func mergeFields(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// loadFieldFile reads a YAML file of field maps, one record per document.
// {{ .ENV.NAME }} placeholders are expanded first.
func loadFieldFile(filename string) ([]map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.ReplaceAll(data, []byte("\t"), []byte("    "))

	env, err := environment()
	if err != nil {
		return nil, err
	}
	data, err = expandEnv(data, env)
	if err != nil {
		return nil, err
	}
	return parseDocuments(data)
}

// parseDocuments splits multi-document YAML into field maps, skipping empty
// documents.
func parseDocuments(data []byte) ([]map[string]any, error) {
	docs := []map[string]any{}
	content := strings.TrimSpace(string(data))
	if content == "" || strings.Trim(content, "- \n\t") == "" {
		return docs, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc map[string]any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		if len(doc) > 0 {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// environment returns the process environment completed with the variables of
// a .env file in the working directory. The process environment wins.
func environment() (map[string]string, error) {
	env := map[string]string{}
	if dotenv, err := godotenv.Read(".env"); err == nil {
		for k, v := range dotenv {
			env[k] = v
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("unable to read .env: %w", err)
	}
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

type templateContext struct {
	ENV map[string]string
}

var missingKeyRe = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// expandEnv replaces {{ .ENV.NAME }} placeholders. A placeholder naming an unset
// variable is an error.
func expandEnv(input []byte, env map[string]string) ([]byte, error) {
	tmpl, err := template.New("fields").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, templateContext{ENV: env}); err != nil {
		if m := missingKeyRe.FindStringSubmatch(err.Error()); len(m) == 2 {
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", m[1])
		}
		return nil, fmt.Errorf("template error: %w", err)
	}
	return out.Bytes(), nil
}
