package command

import (
	"context"
	"regexp"

	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

// resourceCommand declares a listing command for one kind. Everything beyond the
// list call and the column extractors is shared.
type resourceCommand[T any] struct {
	Kind       kobj.Kind
	Name       string
	Aliases    []string
	About      string
	Headers    []string
	Extractors map[string]table.Extractor[T]
	List       func(ctx context.Context, c kubernetes.Interface, namespace string, opts metav1.ListOptions) ([]T, error)

	// ToHandle overrides the metadata-based handle conversion.
	ToHandle func(item *T) kobj.Handle
}

type listOptions struct {
	headers       []string
	filter        *regexp.Regexp
	sortColumn    string
	reverse       bool
	labelSelector string
	namespace     string
}

func listFlags(namespaced bool) func(fs *pflag.FlagSet) {
	return func(fs *pflag.FlagSet) {
		fs.StringP("regex", "r", "", "Filter rows by a regular expression on the name")
		fs.StringP("sort", "s", "", "Sort rows by the given column")
		fs.BoolP("reverse", "R", false, "Reverse the row order")
		fs.StringP("label", "l", "", "Server-side label selector, e.g. app=web,tier!=db")
		if namespaced {
			fs.BoolP("all-namespaces", "A", false, "List across all namespaces")
		}
	}
}

func withNamespaceColumn(headers []string) []string {
	out := make([]string, 0, len(headers)+1)
	inserted := false
	for _, h := range headers {
		out = append(out, h)
		if h == ColumnName && !inserted {
			out = append(out, ColumnNamespace)
			inserted = true
		}
	}
	if !inserted {
		out = append([]string{ColumnNamespace}, out...)
	}
	return out
}

func sortValues(headers []string) []string {
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = columnFlagValue(h)
	}
	return values
}

// parseListOptions validates every listing flag. It runs before the list
// request so invalid input never reaches the cluster.
func parseListOptions(inv *Invocation, headers []string, namespaced bool) (*listOptions, error) {
	fs := inv.Flags
	name := inv.Command.Name
	opts := &listOptions{headers: headers}

	if namespaced {
		opts.namespace = inv.Env.Namespace()
		if all, _ := fs.GetBool("all-namespaces"); all {
			opts.namespace = metav1.NamespaceAll
			opts.headers = withNamespaceColumn(headers)
		}
	}

	pattern, _ := fs.GetString("regex")
	filter, err := CompileFilter(pattern)
	if err != nil {
		return nil, &UsageError{Command: name, Err: err}
	}
	opts.filter = filter

	if column, _ := fs.GetString("sort"); column != "" {
		resolved, err := ResolveColumn(opts.headers, column)
		if err != nil {
			return nil, &UsageError{Command: name, Err: err}
		}
		opts.sortColumn = resolved
	}

	opts.reverse, _ = fs.GetBool("reverse")

	if selector, _ := fs.GetString("label"); selector != "" {
		if _, err := labels.Parse(selector); err != nil {
			return nil, usageErrorf(name, "invalid label selector %q: %v", selector, err)
		}
		opts.labelSelector = selector
	}

	return opts, nil
}

func (r resourceCommand[T]) handle(item *T) kobj.Handle {
	if r.ToHandle != nil {
		return r.ToHandle(item)
	}
	obj, err := meta.Accessor(item)
	if err != nil {
		return kobj.Handle{Kind: r.Kind, Name: "<unknown>"}
	}
	return kobj.New(r.Kind, obj.GetNamespace(), obj.GetName())
}

func (r resourceCommand[T]) command() *Command {
	namespaced := r.Kind.Namespaced()

	return &Command{
		Name:       r.Name,
		Aliases:    r.Aliases,
		About:      r.About,
		Args:       NoArgs,
		Flags:      listFlags(namespaced),
		FlagValues: map[string][]string{"sort": sortValues(r.Headers)},
		Run: func(ctx context.Context, inv *Invocation) error {
			opts, err := parseListOptions(inv, r.Headers, namespaced)
			if err != nil {
				return err
			}

			items, ok := env.RunOnContext(ctx, inv.Env, instrumentation.OperationList, r.Name,
				func(ctx context.Context, c kubernetes.Interface) ([]T, error) {
					return r.List(ctx, c, opts.namespace, metav1.ListOptions{LabelSelector: opts.labelSelector})
				})
			outcome := Failed[T]()
			if ok {
				outcome = Listed(items)
			}

			return RenderList(ctx, inv, ListSpec[T]{
				Headers:    opts.headers,
				Extractors: r.Extractors,
				Filter:     opts.filter,
				SortColumn: opts.sortColumn,
				Reverse:    opts.reverse,
				ToHandle:   r.handle,
			}, outcome)
		},
	}
}
