package command

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/yaml"

	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/kobj"
)

var describeCommand = &Command{
	Name:  "describe",
	About: "Print the selected object, or the object at index, as YAML",
	Args:  OptionalIndex,
	Run:   runDescribe,
}

func runDescribe(ctx context.Context, inv *Invocation) error {
	h, err := target(inv)
	if err != nil {
		return err
	}

	obj, ok := runOnObject(ctx, inv, instrumentation.OperationGet, h,
		func(ctx context.Context, c kubernetes.Interface) (runtime.Object, error) {
			return kobj.Get(ctx, c, h)
		})
	if !ok {
		return ErrReported
	}

	if accessor, err := meta.Accessor(obj); err == nil {
		accessor.SetManagedFields(nil)
	}
	out, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", h, err)
	}
	_, err = inv.Out.Write(out)
	return err
}

var deleteCommand = &Command{
	Name:  "delete",
	About: "Delete the selected object, or the object at index",
	Args:  OptionalIndex,
	Flags: func(fs *pflag.FlagSet) {
		fs.Int64("grace", -1, "Seconds to wait before the object is removed, -1 for the server default")
		fs.BoolP("yes", "y", false, "Do not ask for confirmation")
		fs.Bool("dry-run", false, "Validate the request without deleting anything")
	},
	Run: runDelete,
}

func runDelete(ctx context.Context, inv *Invocation) error {
	grace, _ := inv.Flags.GetInt64("grace")
	yes, _ := inv.Flags.GetBool("yes")
	dryRun, _ := inv.Flags.GetBool("dry-run")
	if grace < -1 {
		return usageErrorf(inv.Command.Name, "--grace must be -1 or more, got %d", grace)
	}

	h, err := target(inv)
	if err != nil {
		return err
	}

	kind := kindTitle(h.Kind)
	if !yes && !dryRun && inv.Env.Settings().ConfirmDelete {
		if !inv.Env.Confirm(fmt.Sprintf("Delete %s %q in context %q?", kind, h.Name, inv.Env.Context())) {
			inv.Printf("Aborted.\n")
			return nil
		}
	}

	opts := metav1.DeleteOptions{}
	if grace >= 0 {
		opts.GracePeriodSeconds = &grace
	}
	if dryRun {
		opts.DryRun = []string{metav1.DryRunAll}
	}

	_, ok := runOnObject(ctx, inv, instrumentation.OperationDelete, h,
		func(ctx context.Context, c kubernetes.Interface) (struct{}, error) {
			return struct{}{}, kobj.Delete(ctx, c, h, opts)
		})
	if !ok {
		return ErrReported
	}

	if dryRun {
		inv.Printf("%s %q would be deleted (dry run).\n", kind, h.Name)
		return nil
	}
	inv.Deselect(h)
	inv.Printf("%s %q deleted.\n", kind, h.Name)
	return nil
}

// runOnObject runs a single-object request, labelled with h's kind.
func runOnObject[T any](ctx context.Context, inv *Invocation, operation string, h kobj.Handle, fn func(context.Context, kubernetes.Interface) (T, error)) (T, bool) {
	info, _ := kobj.Info(h.Kind)
	return env.RunOnContext(ctx, inv.Env, operation, info.Plural, fn)
}

// kindTitle renders a kind for messages, e.g. "Persistent Volume Claim".
func kindTitle(k kobj.Kind) string {
	info, ok := kobj.Info(k)
	if !ok {
		return "Object"
	}
	return cases.Title(language.English).String(info.Words)
}
