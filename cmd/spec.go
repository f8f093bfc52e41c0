package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tarrence/swagger-cli/internal/cligen"
)

func newSpecCmd() *cobra.Command {
	specCmd := &cobra.Command{
		Use:           "spec",
		Short:         "Inspect the loaded Swagger document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	specCmd.AddCommand(newSpecInfoCmd())
	specCmd.AddCommand(newSpecListCmd())
	specCmd.AddCommand(newSpecVerifyCmd())

	return specCmd
}

func newSpecInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "info",
		Short:         "Print the document source, version, base URI and schemes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			client, err := app.runtime.Client(cmd.Context())
			if err != nil {
				return err
			}
			source := app.cfg.Spec
			if source == "" {
				source = "embedded:" + embeddedSpec
			}
			doc := client.Document()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "source\t%s\n", source)
			fmt.Fprintf(w, "title\t%s\n", doc.Info.Title)
			fmt.Fprintf(w, "swagger\t%s\n", client.Version())
			fmt.Fprintf(w, "base\t%s\n", client.BaseURI())
			fmt.Fprintf(w, "schemes\t%s\n", strings.Join(client.Schemes(), ","))
			fmt.Fprintf(w, "default\t%s\n", client.DefaultScheme())
			return nil
		},
	}
}

func newSpecListCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List every operation as group, name, verb and path",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := cligen.RuntimeFrom(cmd)
			if err != nil {
				return err
			}
			client, err := rt.Client(cmd.Context())
			if err != nil {
				return err
			}
			catalogue, err := cligen.BuildCatalogue(client.Document())
			if err != nil {
				return err
			}
			for _, e := range catalogue.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", e.Group, e.Name, strings.ToUpper(e.Method), e.Path)
			}
			return nil
		},
	}
}

func newSpecVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "verify",
		Short:         "Verify the document loads and yields unique operation names",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := cligen.RuntimeFrom(cmd)
			if err != nil {
				return err
			}
			client, err := rt.Client(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cligen.BuildCatalogue(client.Document()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
