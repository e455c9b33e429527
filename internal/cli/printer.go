package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// printJSON wraps value the way every pivoctl JSON result is shaped.
func (a *app) printJSON(value any) {
	a.printRaw(map[string]any{
		"result": 1,
		"value":  value,
	})
}

func (a *app) printRaw(v any) {
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		errorLabel.Fprintf(a.errOut, "Error: unable to encode output: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, string(out))
}

func (a *app) printOK(format string, args ...any) {
	okLabel.Fprintf(a.out, "✓ "+format+"\n", args...)
}

// printRecord prints one record as YAML, or as JSON with --json.
func (a *app) printRecord(v any) error {
	if a.jsonOutput {
		a.printJSON(v)
		return nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("unable to render record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("unable to render record: %w", err)
	}
	fmt.Fprint(a.out, buf.String())
	return nil
}

// printField prints the part of v selected by a gjson path. Scalars print bare,
// objects and arrays print as YAML.
func (a *app) printField(v any, path string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to render record: %w", err)
	}
	res := gjson.GetBytes(raw, path)
	if !res.Exists() {
		return fmt.Errorf("field %q not found", path)
	}
	if a.jsonOutput {
		a.printJSON(res.Value())
		return nil
	}
	if !res.IsObject() && !res.IsArray() {
		fmt.Fprintln(a.out, res.String())
		return nil
	}
	out, err := sigsyaml.JSONToYAML([]byte(res.Raw))
	if err != nil {
		return fmt.Errorf("unable to render field: %w", err)
	}
	fmt.Fprint(a.out, string(out))
	return nil
}

// listPage is the pagination trailer printed under a list.
type listPage struct {
	Count, Total, Page, Pages int
}

func (p listPage) String() string {
	if p.Pages == 0 {
		return ""
	}
	return fmt.Sprintf("page %d of %d, %d of %d shown", p.Page, p.Pages, p.Count, p.Total)
}

// printList prints a Title-cased header and one bullet per item.
func printList[T any](a *app, title string, items []T, page listPage, line func(*T) string) {
	if a.jsonOutput {
		a.printJSON(map[string]any{
			"items": items,
			"count": page.Count,
			"total": page.Total,
			"page":  page.Page,
			"pages": page.Pages,
		})
		return
	}
	if len(items) == 0 {
		fmt.Fprintf(a.out, "No %s found\n", title)
		return
	}
	fmt.Fprintf(a.out, "%s:\n", cases.Title(language.English).String(title))
	for i := range items {
		fmt.Fprintf(a.out, "- %s\n", line(&items[i]))
	}
	if s := page.String(); s != "" {
		fmt.Fprintf(a.out, "(%s)\n", s)
	}
}

// joinNonEmpty joins the non-empty parts with ", ".
func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
