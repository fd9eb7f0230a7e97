package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// layoutsCommand creates the layouts command.
func (c *CLI) layoutsCommand() *cobra.Command {
	flags := &sourceFlags{}
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List the layouts of a keyboard in document order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				_ = cmd.Usage()
				return err
			}

			runner, store, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := flags.options()
			if err := opts.Validate(); err != nil {
				return err
			}
			doc, _, err := c.loadDocument(cmd.Context(), runner, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range doc.Layouts.Names() {
				layout, _ := doc.Layouts.Get(name)
				fmt.Fprintf(out, "%s\t%d keys\n", name, len(layout.Keys))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
