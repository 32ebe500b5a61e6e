package main

import (
	"fmt"

	"github.com/fwojciec/instantmarqo"
)

// Run executes the index create command.
func (c *IndexCreateCmd) Run(deps *Dependencies) error {
	settings := instantmarqo.NewIndexSettings(c.Name, c.Multimodal, c.Model)
	if _, err := deps.Indexes.Create(deps.Ctx, settings, c.SkipIfExists); err != nil {
		if instantmarqo.ErrorCode(err) == instantmarqo.ECONFLICT {
			fmt.Fprintf(deps.Stderr, "error: index %q already exists. Use --skip-if-exists to ignore.\n", c.Name)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Index %q ready (%s)\n", c.Name, settings.Model)
	return nil
}

// Run executes the index delete command.
func (c *IndexDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return instantmarqo.Errorf(instantmarqo.EINVALID, "use --force to confirm deletion")
	}

	resp, err := deps.Indexes.Delete(deps.Ctx, c.Name, c.SkipIfNotExists)
	if err != nil {
		if instantmarqo.ErrorCode(err) == instantmarqo.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: index %q not found. Use 'instantmarqo index list' to see available indexes.\n", c.Name)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	if resp == nil {
		fmt.Fprintf(deps.Stdout, "Index %q does not exist\n", c.Name)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Deleted index %q\n", c.Name)
	return nil
}

// Run executes the index list command.
func (c *IndexListCmd) Run(deps *Dependencies) error {
	names, err := deps.Index.ListIndexes(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(deps.Stdout, "No indexes found. Use 'instantmarqo index create' to create one.")
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
