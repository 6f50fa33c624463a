package command

import (
	"strconv"

	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/kobj"
)

// target resolves the object a command acts on: the row named by an index
// argument, or else the current selection. An index argument becomes the
// selection once the command succeeds.
func target(inv *Invocation) (kobj.Handle, error) {
	if len(inv.Args) > 0 {
		index, err := strconv.Atoi(inv.Args[0])
		if err != nil {
			return kobj.Handle{}, usageErrorf(inv.Command.Name, "invalid index %q", inv.Args[0])
		}
		h, err := inv.Env.ResolveRow(index)
		if err != nil {
			return kobj.Handle{}, err
		}
		inv.Select(h)
		return h, nil
	}
	if h, ok := inv.Current(); ok {
		return h, nil
	}
	return kobj.Handle{}, env.ErrNothingSelected
}
