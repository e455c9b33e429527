package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thepivo/pivoadmin/internal/adminapi"
	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/tidwall/gjson"
)

// resourceCommands describes one command group: how to reach the collection
// through the admin client and how to print its records. T is the record type,
// In the input type --set and --from-file decode into.
type resourceCommands[T, In any] struct {
	name     string // command name and list header
	singular string // used in messages
	aliases  []string

	list   func(ctx context.Context, c *adminapi.Client, q adminapi.ListQuery) (*adminapi.ListResult[T], error)
	get    func(ctx context.Context, c *adminapi.Client, id string) (*T, error)
	create func(ctx context.Context, c *adminapi.Client, in *In) (*T, error)
	update func(ctx context.Context, c *adminapi.Client, id string, in *In) (*T, error)
	delete func(ctx context.Context, c *adminapi.Client, id string) error

	line        func(*T) string
	listFlags   func(*cobra.Command)
	attachments []attachment[In]
}

// attachment is a file flag of a multipart resource.
type attachment[In any] struct {
	flag   string
	usage  string
	fields []string // field names that must not be given with --set
	many   bool
	set    func(in *In, files []*formdata.File)
}

func (r resourceCommands[T, In]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     r.name,
		Aliases: r.aliases,
		Short:   fmt.Sprintf("Manage %s", r.name),
	}
	cmd.AddCommand(r.listCmd(a), r.getCmd(a), r.createCmd(a), r.updateCmd(a), r.deleteCmd(a))
	return cmd
}

func (r resourceCommands[T, In]) listCmd(a *app) *cobra.Command {
	var q adminapi.ListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.requireLogin()
			if err != nil {
				return err
			}
			res, err := r.list(cmd.Context(), c, q)
			if err != nil {
				return err
			}
			printList(a, r.name, res.Items, listPage{
				Count: res.Count,
				Total: res.Total,
				Page:  res.Page,
				Pages: res.Pages,
			}, r.line)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 0, "Page number, starting at 1")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Records per page")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "Sort field; prefix with - for descending")
	cmd.Flags().StringVar(&q.Search, "search", "", "Free text search")
	if r.listFlags != nil {
		r.listFlags(cmd)
	}
	return cmd
}

func (r resourceCommands[T, In]) getCmd(a *app) *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Show one %s", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.requireLogin()
			if err != nil {
				return err
			}
			item, err := r.get(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%s %s not returned by the server", r.singular, args[0])
			}
			if field != "" {
				return a.printField(item, field)
			}
			return a.printRecord(item)
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "", "Print only this field (gjson path, e.g. video.url)")
	return cmd
}

func (r resourceCommands[T, In]) createCmd(a *app) *cobra.Command {
	var set []string
	var fromFile string
	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create %s", r.name),
		Long: fmt.Sprintf(`Create %s from --set key=value pairs or a YAML file with one record per
document. Pairs given with --set apply to every document of the file.
Placeholders like {{ .ENV.NAME }} in the file are read from the environment.`, r.name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.requireLogin()
			if err != nil {
				return err
			}
			docs, err := r.fieldDocuments(set, fromFile)
			if err != nil {
				return err
			}
			var created []*T
			for _, fields := range docs {
				item, err := r.send(cmd, fields, func(in *In) (*T, error) {
					return r.create(cmd.Context(), c, in)
				})
				if err != nil {
					return err
				}
				created = append(created, item)
			}
			return r.printChanged(a, "Created", created)
		},
	}
	r.inputFlags(cmd, &set, &fromFile)
	return cmd
}

func (r resourceCommands[T, In]) updateCmd(a *app) *cobra.Command {
	var set []string
	var fromFile string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: fmt.Sprintf("Update one %s", r.singular),
		Long:  fmt.Sprintf(`Update one %s. Only the fields given are sent.`, r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.requireLogin()
			if err != nil {
				return err
			}
			docs, err := r.fieldDocuments(set, fromFile)
			if err != nil {
				return err
			}
			if len(docs) != 1 {
				return fmt.Errorf("update takes exactly one document, %s has %d", fromFile, len(docs))
			}
			if len(docs[0]) == 0 && !r.hasAttachments(cmd) {
				return errors.New("nothing to update, use --set or --from-file")
			}
			item, err := r.send(cmd, docs[0], func(in *In) (*T, error) {
				return r.update(cmd.Context(), c, args[0], in)
			})
			if err != nil {
				return err
			}
			return r.printChanged(a, "Updated", []*T{item})
		},
	}
	r.inputFlags(cmd, &set, &fromFile)
	return cmd
}

func (r resourceCommands[T, In]) deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete one %s", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.requireLogin()
			if err != nil {
				return err
			}
			if err := r.delete(cmd.Context(), c, args[0]); err != nil {
				return err
			}
			if a.jsonOutput {
				a.printJSON(map[string]any{"deleted": args[0]})
				return nil
			}
			a.printOK("Deleted %s %s", r.singular, args[0])
			return nil
		},
	}
}

func (r resourceCommands[T, In]) inputFlags(cmd *cobra.Command, set *[]string, fromFile *string) {
	cmd.Flags().StringArrayVar(set, "set", nil, "Field value as key=value; repeatable")
	cmd.Flags().StringVarP(fromFile, "from-file", "f", "", "YAML file of fields")
	for _, at := range r.attachments {
		if at.many {
			cmd.Flags().StringArray(at.flag, nil, at.usage)
		} else {
			cmd.Flags().String(at.flag, "", at.usage)
		}
	}
}

// fieldDocuments returns one field map per record to send.
func (r resourceCommands[T, In]) fieldDocuments(set []string, fromFile string) ([]map[string]any, error) {
	override, err := parseSet(set)
	if err != nil {
		return nil, err
	}
	docs := []map[string]any{{}}
	if fromFile != "" {
		if docs, err = loadFieldFile(fromFile); err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("%s contains no records", fromFile)
		}
	}
	for i := range docs {
		docs[i] = mergeFields(docs[i], override)
		if err := r.checkAttachmentFields(docs[i]); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (r resourceCommands[T, In]) checkAttachmentFields(fields map[string]any) error {
	for _, at := range r.attachments {
		for _, name := range at.fields {
			if _, ok := fields[name]; ok {
				return fmt.Errorf("%q is a file, attach it with --%s", name, at.flag)
			}
		}
	}
	return nil
}

func (r resourceCommands[T, In]) hasAttachments(cmd *cobra.Command) bool {
	for _, at := range r.attachments {
		if cmd.Flags().Changed(at.flag) {
			return true
		}
	}
	return false
}

// send decodes fields into a fresh input, opens the attachments and calls fn.
// Attachment files are opened per call since their content is consumed.
func (r resourceCommands[T, In]) send(cmd *cobra.Command, fields map[string]any, fn func(*In) (*T, error)) (*T, error) {
	in := new(In)
	if err := decodeFields(fields, in); err != nil {
		return nil, err
	}
	closeAll, err := r.openAttachments(cmd, in)
	if err != nil {
		return nil, err
	}
	defer closeAll()
	return fn(in)
}

func (r resourceCommands[T, In]) openAttachments(cmd *cobra.Command, in *In) (func(), error) {
	var opened []*formdata.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, at := range r.attachments {
		var paths []string
		if at.many {
			paths, _ = cmd.Flags().GetStringArray(at.flag)
		} else if p, _ := cmd.Flags().GetString(at.flag); p != "" {
			paths = []string{p}
		}
		if len(paths) == 0 {
			continue
		}
		files := make([]*formdata.File, 0, len(paths))
		for _, p := range paths {
			f, err := formdata.Open(p)
			if err != nil {
				closeAll()
				return nil, err
			}
			opened = append(opened, f)
			files = append(files, f)
		}
		at.set(in, files)
	}
	return closeAll, nil
}

func (r resourceCommands[T, In]) printChanged(a *app, verb string, items []*T) error {
	if a.jsonOutput {
		if len(items) == 1 {
			a.printJSON(items[0])
		} else {
			a.printJSON(items)
		}
		return nil
	}
	for _, item := range items {
		if item == nil {
			a.printOK("%s %s", verb, r.singular)
			continue
		}
		a.printOK("%s %s %s", verb, r.singular, recordID(item))
		if err := a.printRecord(item); err != nil {
			return err
		}
	}
	return nil
}

// recordID returns the "_id" of any record.
func recordID(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(raw, "_id").String()
}
