package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tarrence/swagger-cli/internal/cligen"
	"github.com/tarrence/swagger-cli/swagger"
)

// dataFlag binds --data on commands that can send a body.
type dataFlag struct {
	value string
}

func (d *dataFlag) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.value, "data", "", "Request body: '@file.json', '-' for stdin, or inline string")
}

// apply reads the body into args when --data was given.
func (d *dataFlag) apply(cmd *cobra.Command, args swagger.Args) error {
	if !cmd.Flags().Changed("data") {
		return nil
	}
	body, err := cligen.ReadDataArg(d.value, cmd.InOrStdin())
	if err != nil {
		return err
	}
	args[swagger.ArgBody] = body
	return nil
}

func newCallCmd() *cobra.Command {
	data := &dataFlag{}
	cmd := &cobra.Command{
		Use:   "call <verb> <path-template> [name=value ...]",
		Short: "Call an operation by verb and path template",
		Long: "Call an operation by verb and path template.\n\n" +
			"The path template must match the document exactly, e.g. /pet/{petId}.\n" +
			"name=value arguments fill path placeholders; declared header and formData\n" +
			"parameters go where the document says; everything else is sent as a query\n" +
			"parameter. Repeat a name to send it several times.",
		Example: "  swagger-cli call get /pet/{petId} petId=2\n" +
			"  swagger-cli call get /pet/findByStatus status=available status=sold\n" +
			"  swagger-cli call post /pet --data @pet.json --auth special-key",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := cligen.RuntimeFrom(cmd)
			if err != nil {
				return err
			}
			callArgs, err := cligen.ParseArgs(args[2:])
			if err != nil {
				return err
			}
			if err := data.apply(cmd, callArgs); err != nil {
				return err
			}
			return rt.Call(cmd.Context(), args[0], args[1], callArgs)
		},
	}
	data.bind(cmd)
	return cmd
}

func newOpCmd() *cobra.Command {
	data := &dataFlag{}
	cmd := &cobra.Command{
		Use:   "op <operation> [name=value ...]",
		Short: "Call an operation by name (see 'spec list')",
		Long: "Call an operation by name.\n\n" +
			"The name is the kebab-cased operationId, optionally prefixed with its group\n" +
			"(the first tag) as group/name when the bare name is ambiguous.",
		Example: "  swagger-cli op get-pet-by-id petId=2\n" +
			"  swagger-cli op store/get-inventory --auth special-key",
		Args:          cobra.MinimumNArgs(1),
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
			entry, err := catalogue.Lookup(args[0])
			if err != nil {
				return err
			}
			callArgs, err := cligen.ParseArgs(args[1:])
			if err != nil {
				return err
			}
			if err := data.apply(cmd, callArgs); err != nil {
				return err
			}
			return rt.Call(cmd.Context(), entry.Method, entry.Path, callArgs)
		},
	}
	data.bind(cmd)
	return cmd
}
