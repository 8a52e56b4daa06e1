package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a random password",
	Long:    "Generate a random password from letters, optionally with digits and symbols. Defaults come from the generator section of the config.",
	Args:    cobra.NoArgs,
	RunE:    runGenerate,
}

func init() {
	addGeneratorFlags(generateCmd)
	generateCmd.Flags().BoolP("copy", "c", false, "copy the password to the clipboard instead of printing it")
	rootCmd.AddCommand(generateCmd)
}

func addGeneratorFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("length", "l", 0, "password length (default from config)")
	cmd.Flags().Bool("numbers", false, "include digits (default from config)")
	cmd.Flags().Bool("symbols", false, "include symbols (default from config)")
}

// generatorOptions returns the flag values, falling back to the config for
// flags not given on the command line.
func generatorOptions(cmd *cobra.Command) (length int, numbers, symbols bool) {
	length, numbers, symbols = cfg.Generator.Length, cfg.Generator.Numbers, cfg.Generator.Symbols
	flags := cmd.Flags()
	if flags.Changed("length") {
		length, _ = flags.GetInt("length")
	}
	if flags.Changed("numbers") {
		numbers, _ = flags.GetBool("numbers")
	}
	if flags.Changed("symbols") {
		symbols, _ = flags.GetBool("symbols")
	}
	return length, numbers, symbols
}

func runGenerate(cmd *cobra.Command, args []string) error {
	length, numbers, symbols := generatorOptions(cmd)
	pw, err := newGenerator().Generate(length, numbers, symbols)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if doCopy, _ := cmd.Flags().GetBool("copy"); doCopy {
		if err := clipboard.Copy(pw); err != nil {
			return err
		}
		fmt.Fprintf(out, "Generated %d-character password copied to clipboard\n", len(pw))
		return nil
	}
	if jsonOut {
		return printJSON(out, map[string]string{"password": pw})
	}
	fmt.Fprintln(out, pw)
	return nil
}
