package filter

import (
	"fmt"

	"github.com/endorses/seqfilter/internal/pkg/cmdutil"
	"github.com/endorses/seqfilter/internal/pkg/fieldmap"
	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/output"
	"github.com/spf13/cobra"
)

var decodeJSON bool

var decodeCmd = &cobra.Command{
	Use:   "decode STRING",
	Short: "Split a filter string into its fields",
	Long: `Decode a flattened filter string such as "Name:Bob:Level:10:;5-10" into
its fields. Info sub-fields are shown as Info.<slot>.

Examples:
  seqfilter filter decode 'Name:Bob:.*:Class:Warrior:;5-10'
  seqfilter filter decode --json 'Info:.*H:Helm( | .* )F:Boots:'`,
	Args: cobra.ExactArgs(1),
	Run:  runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode KEY=VALUE...",
	Short: "Build a filter string from fields",
	Long: `Encode fields into a flattened filter string. Keys are field names
(Name, Race, Class, ...), Info.<slot> for equipment slots, and MinLevel and
MaxLevel for the level range.

Examples:
  seqfilter filter encode Name=Bob Class=Warrior MinLevel=5 MaxLevel=10
  seqfilter filter encode Info.H=Helm Info.F=Boots`,
	Args: cobra.MinimumNArgs(1),
	Run:  runEncode,
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "Output JSON")
}

func runDecode(cmd *cobra.Command, args []string) {
	m := fieldmap.NewCodec(sink()).Decode(args[0])

	if decodeJSON {
		if err := OutputJSON(cmd, m); err != nil {
			OutputError(cmd, err, ExitGeneralError)
		}
		return
	}
	output.RenderFields(cmd.OutOrStdout(), m.Keys(), m)
}

func runEncode(cmd *cobra.Command, args []string) {
	values, err := cmdutil.ParseKeyValues(args)
	if err != nil {
		OutputError(cmd, err, ExitValidationError)
		return
	}
	for key := range values {
		if !fieldmap.IsKey(key) {
			OutputError(cmd, &filtering.ValidationError{Field: "field", Message: fmt.Sprintf("unknown field: %s", key)}, ExitValidationError)
			return
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), fieldmap.NewCodec(sink()).Encode(fieldmap.FieldMap(values)))
}
