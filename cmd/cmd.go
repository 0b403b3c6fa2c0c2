package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dtromb/nfadfa"
	"github.com/dtromb/nfadfa/define"
	"github.com/dtromb/nfadfa/envconfig"
	"github.com/dtromb/nfadfa/logutil"
	"github.com/dtromb/nfadfa/render"
)

var errFormat = errors.New("unknown output format")

type conversion struct {
	form *define.Form
	nfa  *nfadfa.Nfa
	dfa  *nfadfa.Dfa
}

func convertFile(cmd *cobra.Command, path string) (*conversion, error) {
	form, err := define.LoadFile(path)
	if err != nil {
		return nil, err
	}
	nfa, err := form.Nfa()
	if err != nil {
		return nil, err
	}
	if !nfa.AlphabetConsistent() {
		slog.Warn("states declare different symbols; only the initial state's symbols are used",
			"alphabet", nfa.Alphabet())
	}

	opts := &nfadfa.Options{
		MaxStates: envconfig.MaxStates,
		Separator: envconfig.Separator,
	}
	if cmd.Flags().Changed("max-states") {
		opts.MaxStates, _ = cmd.Flags().GetInt("max-states")
	}
	if cmd.Flags().Changed("separator") {
		opts.Separator, _ = cmd.Flags().GetString("separator")
	}

	dfa, err := nfadfa.TransformToDfa(nfa, form.FinalStates(), opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("converted", "file", path, "nfa_states", nfa.NumStates(), "dfa_states", dfa.NumStates())
	return &conversion{form: form, nfa: nfa, dfa: dfa}, nil
}

func convertHandler(cmd *cobra.Command, args []string) error {
	conv, err := convertFile(cmd, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table":
		if showNfa, _ := cmd.Flags().GetBool("nfa"); showNfa {
			fmt.Fprintln(out, "NFA")
			render.WriteNfa(conv.nfa, conv.form.FinalStates(), out)
			fmt.Fprintln(out, "DFA")
		}
		opts := &render.Options{ShowDead: true}
		render.WriteDfa(conv.dfa, out, opts)
		if err := render.WriteAccepting(conv.dfa, out, opts); err != nil {
			return err
		}
	case "yaml":
		data, err := render.MarshalDfa(conv.dfa)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w %q", errFormat, format)
	}
	return nil
}

func acceptHandler(cmd *cobra.Command, args []string) error {
	conv, err := convertFile(cmd, args[0])
	if err != nil {
		return err
	}
	input := make([]nfadfa.Symbol, len(args)-1)
	for i, a := range args[1:] {
		input[i] = nfadfa.Symbol(a)
	}

	verdict := "rejected"
	if conv.dfa.Accepts(input) {
		verdict = "accepted"
	}
	if conv.nfa.Accepts(conv.form.FinalStates(), input) != conv.dfa.Accepts(input) {
		slog.Warn("nfa and dfa disagree; the input uses symbols outside the initial state's alphabet", "input", input)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), verdict)
	return err
}

func envHandler(cmd *cobra.Command, _ []string) error {
	vars := envconfig.AsMap()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-8v %s\n", k, vars[k].Value, vars[k].Description)
	}
	return nil
}

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nfa2dfa",
		Short: "Convert nondeterministic finite automata to deterministic ones",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			debug, _ := cmd.Flags().GetBool("debug")
			level := logutil.Level(debug || envconfig.Debug)
			if trace, _ := cmd.Flags().GetBool("trace"); trace {
				level = logutil.LevelTrace
			}
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), level))
		},
	}
	rootCmd.PersistentFlags().Bool("debug", false, "Log construction details")
	rootCmd.PersistentFlags().Bool("trace", false, "Log every computed transition")

	cobra.EnableCommandSorting = false

	convertCmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert an NFA definition to a DFA",
		Args:  cobra.ExactArgs(1),
		RunE:  convertHandler,
	}
	convertCmd.Flags().String("format", "table", "Output format (table or yaml)")
	convertCmd.Flags().Bool("nfa", false, "Also print the NFA table")

	acceptCmd := &cobra.Command{
		Use:   "accept FILE [SYMBOL...]",
		Short: "Run the converted DFA over a sequence of symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE:  acceptHandler,
	}

	for _, c := range []*cobra.Command{convertCmd, acceptCmd} {
		c.Flags().Int("max-states", 0, "Fail when the DFA would exceed this many states (0 for no limit)")
		c.Flags().String("separator", "", "Separator between NFA state names in DFA labels")
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "List configuration environment variables",
		Args:  cobra.NoArgs,
		RunE:  envHandler,
	}

	rootCmd.AddCommand(convertCmd, acceptCmd, envCmd)
	return rootCmd
}
